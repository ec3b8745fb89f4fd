package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/desktop"
	"github.com/1broseidon/relic/internal/platform"
	"github.com/1broseidon/relic/internal/theme"
	"github.com/1broseidon/relic/internal/tiling"
)

// ErrNotResizable is returned by resize_surface for drivers without SetSize.
var ErrNotResizable = errors.New("surface cannot be resized")

// sizer is implemented by surfaces whose size can be changed from inside
// the process.
type sizer interface {
	SetSize(width, height int)
}

// do runs fn on the desktop goroutine and logs the outcome.
func (s *Server) do(ctx context.Context, tool string, fn func(d *desktop.Desktop) error) error {
	err := s.desk.Do(ctx, fn)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
		return err
	}
	s.log.Debug("tool handled", zap.String("tool", tool))
	return nil
}

func lookup(d *desktop.Desktop, ref string) (*control.Control, error) {
	c := d.Lookup(ref)
	if c == nil {
		return nil, fmt.Errorf("no control matches %q", ref)
	}
	return c, nil
}

func lookupWindow(d *desktop.Desktop, ref string) (*control.Control, error) {
	c, err := lookup(d, ref)
	if err != nil {
		return nil, err
	}
	if c.Kind() != control.KindWindow {
		return nil, fmt.Errorf("%q: %w", ref, control.ErrNotWindow)
	}
	return c, nil
}

// parentOf resolves an optional container reference; empty means the root.
func parentOf(d *desktop.Desktop, ref string) (*control.Control, error) {
	if ref == "" {
		return d.Root(), nil
	}
	return lookup(d, ref)
}

func checkColor(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := theme.Parse(value); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

func infoOf(c *control.Control, depth int) ControlInfo {
	info := ControlInfo{
		ID:          c.ID(),
		Depth:       depth,
		Name:        c.Name(),
		Kind:        c.Kind().String(),
		Tag:         c.Tag,
		X:           c.X(),
		Y:           c.Y(),
		Width:       c.Width(),
		Height:      c.Height(),
		Background:  c.BackgroundColor(),
		Foreground:  c.ForegroundColor(),
		Title:       c.Title(),
		WindowStyle: string(c.BorderStyle()),
		Focused:     c.Focused(),
	}
	if p := c.Parent(); p != nil {
		info.Parent = p.ID()
	}
	if c.IsRoot() {
		r := c.Body().Bounds()
		info.Width, info.Height = r.Width, r.Height
	}
	return info
}

func flatten(c *control.Control, depth int, out []ControlInfo) []ControlInfo {
	out = append(out, infoOf(c, depth))
	for _, child := range c.Children() {
		out = flatten(child, depth+1, out)
	}
	return out
}

func depthOf(c *control.Control) int {
	depth := 0
	for p := c.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

func (s *Server) handleListControls(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ListControlsInput) (*mcpsdk.CallToolResult, ListControlsOutput, error) {
	var out ListControlsOutput
	err := s.do(ctx, "list_controls", func(d *desktop.Desktop) error {
		out.SurfaceWidth, out.SurfaceHeight = d.Surface().Size()
		if active, ok := d.Interaction().Active(); ok {
			out.Dragging = active.Window.ID()
		}
		out.Controls = flatten(d.Root(), 0, nil)
		return nil
	})
	if err != nil {
		return nil, ListControlsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleAddWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args AddWindowInput) (*mcpsdk.CallToolResult, ControlInfo, error) {
	if err := checkColor("background", args.Background); err != nil {
		return nil, ControlInfo{}, err
	}
	if err := checkColor("foreground", args.Foreground); err != nil {
		return nil, ControlInfo{}, err
	}
	spec := config.ControlSpec{
		Kind:        args.Kind,
		Name:        args.Name,
		Tag:         args.Tag,
		X:           args.X,
		Y:           args.Y,
		Width:       args.Width,
		Height:      args.Height,
		Background:  args.Background,
		Foreground:  args.Foreground,
		Title:       args.Title,
		WindowStyle: args.WindowStyle,
	}

	var out ControlInfo
	err := s.do(ctx, "add_window", func(d *desktop.Desktop) error {
		parent, err := parentOf(d, args.Parent)
		if err != nil {
			return err
		}
		c, err := desktop.Build(d.Surface(), spec, "add_window")
		if err != nil {
			return err
		}
		if err := d.AddTo(parent, c); err != nil {
			return err
		}
		out = infoOf(c, depthOf(c))
		return nil
	})
	if err != nil {
		return nil, ControlInfo{}, err
	}
	return nil, out, nil
}

func (s *Server) handleRemoveChild(ctx context.Context, _ *mcpsdk.CallToolRequest, args RemoveChildInput) (*mcpsdk.CallToolResult, RemoveChildOutput, error) {
	var out RemoveChildOutput
	err := s.do(ctx, "remove_child", func(d *desktop.Desktop) error {
		parent, err := parentOf(d, args.Parent)
		if err != nil {
			return err
		}
		removed, err := d.RemoveFrom(parent, args.Name)
		if err != nil {
			return err
		}
		if removed != nil {
			out = RemoveChildOutput{Removed: true, ID: removed.ID()}
		}
		return nil
	})
	if err != nil {
		return nil, RemoveChildOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetGeometry(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetGeometryInput) (*mcpsdk.CallToolResult, ControlInfo, error) {
	var out ControlInfo
	err := s.do(ctx, "set_geometry", func(d *desktop.Desktop) error {
		c, err := lookup(d, args.Ref)
		if err != nil {
			return err
		}
		if c.IsRoot() {
			return fmt.Errorf("the desktop follows the surface size; use resize_surface")
		}
		r := c.Rect()
		if args.X != nil {
			r.X = *args.X
		}
		if args.Y != nil {
			r.Y = *args.Y
		}
		if args.Width != nil {
			r.Width = *args.Width
		}
		if args.Height != nil {
			r.Height = *args.Height
		}
		c.SetRect(r)
		out = infoOf(c, depthOf(c))
		return nil
	})
	if err != nil {
		return nil, ControlInfo{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetColors(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetColorsInput) (*mcpsdk.CallToolResult, ControlInfo, error) {
	if args.Background != nil {
		if err := checkColor("background", *args.Background); err != nil {
			return nil, ControlInfo{}, err
		}
	}
	if args.Foreground != nil {
		if err := checkColor("foreground", *args.Foreground); err != nil {
			return nil, ControlInfo{}, err
		}
	}

	var out ControlInfo
	err := s.do(ctx, "set_colors", func(d *desktop.Desktop) error {
		c, err := lookup(d, args.Ref)
		if err != nil {
			return err
		}
		if args.Background != nil {
			c.SetBackgroundColor(*args.Background)
		}
		if args.Foreground != nil {
			c.SetForegroundColor(*args.Foreground)
		}
		out = infoOf(c, depthOf(c))
		return nil
	})
	if err != nil {
		return nil, ControlInfo{}, err
	}
	return nil, out, nil
}

func (s *Server) handleSetTitle(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, ControlInfo, error) {
	var out ControlInfo
	err := s.do(ctx, "set_title", func(d *desktop.Desktop) error {
		w, err := lookupWindow(d, args.Ref)
		if err != nil {
			return err
		}
		w.SetTitle(args.Title)
		out = infoOf(w, depthOf(w))
		return nil
	})
	if err != nil {
		return nil, ControlInfo{}, err
	}
	return nil, out, nil
}

func (s *Server) handleFocusWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	out := FocusWindowOutput{Focused: []string{}}
	err := s.do(ctx, "focus_window", func(d *desktop.Desktop) error {
		var target *control.Control
		if args.Ref == "" && args.Direction != "" {
			dir, err := tiling.ParseDirection(args.Direction)
			if err != nil {
				return err
			}
			if target = d.FocusNeighbor(dir); target == nil {
				return nil
			}
		} else if args.Ref != "" {
			w, err := lookupWindow(d, args.Ref)
			if err != nil {
				return err
			}
			target = w
		}
		d.Focus(target)
		d.Root().Walk(func(c *control.Control) bool {
			if c.Focused() {
				out.Focused = append(out.Focused, c.ID())
			}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, FocusWindowOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handlePointer(ctx context.Context, _ *mcpsdk.CallToolRequest, args PointerInput) (*mcpsdk.CallToolResult, PointerOutput, error) {
	var kind platform.EventKind
	switch strings.ToLower(strings.TrimSpace(args.Action)) {
	case "down":
		kind = platform.EventPointerDown
	case "move":
		kind = platform.EventPointerMove
	case "up":
		kind = platform.EventPointerUp
	default:
		return nil, PointerOutput{}, fmt.Errorf("unknown pointer action %q (expected down, move or up)", args.Action)
	}

	var out PointerOutput
	err := s.do(ctx, "pointer", func(d *desktop.Desktop) error {
		if err := d.HandleEvent(platform.Event{Kind: kind, X: args.X, Y: args.Y}); err != nil {
			return err
		}
		drag := d.Interaction()
		out.Phase = drag.Phase().String()
		if active, ok := drag.Active(); ok {
			out.Dragging = active.Window.ID()
		}
		return nil
	})
	if err != nil {
		return nil, PointerOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleArrangeWindows(ctx context.Context, _ *mcpsdk.CallToolRequest, args ArrangeWindowsInput) (*mcpsdk.CallToolResult, ArrangeWindowsOutput, error) {
	mode, err := tiling.ParseMode(args.Mode)
	if err != nil {
		return nil, ArrangeWindowsOutput{}, err
	}

	out := ArrangeWindowsOutput{Windows: []ControlInfo{}}
	err = s.do(ctx, "arrange_windows", func(d *desktop.Desktop) error {
		if err := d.Arrange(mode); err != nil {
			return err
		}
		for _, w := range d.Windows() {
			out.Windows = append(out.Windows, infoOf(w, 1))
		}
		return nil
	})
	if err != nil {
		return nil, ArrangeWindowsOutput{}, err
	}
	return nil, out, nil
}

func (s *Server) handleResizeSurface(ctx context.Context, _ *mcpsdk.CallToolRequest, args ResizeSurfaceInput) (*mcpsdk.CallToolResult, ResizeSurfaceOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ResizeSurfaceOutput{}, fmt.Errorf("width and height must be positive, got %dx%d", args.Width, args.Height)
	}

	var out ResizeSurfaceOutput
	err := s.do(ctx, "resize_surface", func(d *desktop.Desktop) error {
		sz, ok := d.Surface().(sizer)
		if !ok {
			return ErrNotResizable
		}
		sz.SetSize(args.Width, args.Height)
		out.Width, out.Height = d.Surface().Size()
		if out.Width != args.Width || out.Height != args.Height {
			// The host applies the size later; its resize event relayouts.
			out.Width, out.Height, out.Pending = args.Width, args.Height, true
			return nil
		}
		d.Relayout()
		return nil
	})
	if err != nil {
		return nil, ResizeSurfaceOutput{}, err
	}
	return nil, out, nil
}
