package desktop

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/platform"
	"github.com/1broseidon/relic/internal/tiling"
)

// Populate builds the configured controls and adds them to the root in
// order. It stops at the first control that cannot be built.
func (d *Desktop) Populate(specs []config.ControlSpec) error {
	for i, spec := range specs {
		path := fmt.Sprintf("windows[%d]", i)
		c, err := Build(d.surface, spec, path)
		if err != nil {
			return err
		}
		if err := d.AddChild(c); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	d.log.Info("scene populated", zap.Int("controls", len(specs)))
	return nil
}

// Reload replaces the root's children with a freshly built scene and applies
// mode when it is not empty. Every control is built before the current scene
// is touched, so a failure leaves it as it was. A running drag is dropped.
func (d *Desktop) Reload(specs []config.ControlSpec, mode tiling.Mode) error {
	if mode != "" {
		if _, err := tiling.ParseMode(string(mode)); err != nil {
			return err
		}
	}
	built := make([]*control.Control, len(specs))
	for i, spec := range specs {
		c, err := Build(d.surface, spec, fmt.Sprintf("windows[%d]", i))
		if err != nil {
			return err
		}
		built[i] = c
	}

	d.drag.Reset()
	d.root.Clear()
	for _, c := range built {
		// Fresh controls always attach to the root.
		_ = d.AddChild(c)
	}
	d.log.Info("scene populated", zap.Int("controls", len(built)))
	if mode != "" {
		return d.Arrange(mode)
	}
	return nil
}

// Build creates the control described by spec and its descendants. path
// prefixes error messages.
func Build(s platform.Surface, spec config.ControlSpec, path string) (*control.Control, error) {
	opts := control.Options{
		Name:            spec.Name,
		Tag:             spec.Tag,
		X:               spec.X,
		Y:               spec.Y,
		Width:           spec.Width,
		Height:          spec.Height,
		BackgroundColor: spec.Background,
		ForegroundColor: spec.Foreground,
		Font:            spec.Font,
		FontSize:        spec.FontSize,
	}

	var c *control.Control
	switch kind := spec.EffectiveKind(); kind {
	case config.KindWindow:
		w, err := control.NewWindow(s, control.WindowOptions{
			Options:     opts,
			Title:       spec.Title,
			WindowStyle: spec.WindowStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		c = w
	case config.KindContainer:
		c = control.NewContainer(s, opts)
	case config.KindControl:
		if len(spec.Children) > 0 {
			return nil, fmt.Errorf("%s: %w", path, control.ErrNotContainer)
		}
		return control.New(s, opts), nil
	default:
		return nil, fmt.Errorf("%s: unknown control kind %q", path, kind)
	}

	for i, childSpec := range spec.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		child, err := Build(s, childSpec, childPath)
		if err != nil {
			return nil, err
		}
		if err := c.AddChild(child); err != nil {
			return nil, fmt.Errorf("%s: %w", childPath, err)
		}
	}
	return c, nil
}

// Arrange repositions the root's windows and keeps them on the surface.
func (d *Desktop) Arrange(mode tiling.Mode) error {
	windows := d.Windows()
	current := make([]platform.Rect, len(windows))
	for i, w := range windows {
		current[i] = w.Rect()
	}

	area := d.root.ContentRegion()
	area.X, area.Y = 0, 0
	rects, err := tiling.Arrange(mode, current, area, d.gap)
	if err != nil {
		return fmt.Errorf("arrange %s: %w", mode, err)
	}
	for i, w := range windows {
		w.SetRect(rects[i])
	}
	d.containAll()
	d.log.Info("windows arranged", zap.String("mode", string(mode)), zap.Int("windows", len(windows)))
	return nil
}

// Node is a serializable view of one control.
type Node struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Kind        string `json:"kind"`
	Tag         string `json:"tag,omitempty"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Background  string `json:"background,omitempty"`
	Foreground  string `json:"foreground,omitempty"`
	Title       string `json:"title,omitempty"`
	WindowStyle string `json:"window_style,omitempty"`
	Focused     bool   `json:"focused,omitempty"`
	Children    []Node `json:"children,omitempty"`
}

// Snapshot is a serializable view of the whole desktop.
type Snapshot struct {
	Surface  platform.Rect `json:"surface"`
	Dragging string        `json:"dragging,omitempty"`
	Root     Node          `json:"root"`
}

// Snapshot captures the current tree.
func (d *Desktop) Snapshot() Snapshot {
	w, h := d.surface.Size()
	snap := Snapshot{
		Surface: platform.Rect{Width: w, Height: h},
		Root:    NodeOf(d.root),
	}
	if active, ok := d.drag.Active(); ok {
		snap.Dragging = active.Window.ID()
	}
	return snap
}

// NodeOf converts c and its descendants.
func NodeOf(c *control.Control) Node {
	n := Node{
		ID:          c.ID(),
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
	if c.IsRoot() {
		r := c.Body().Bounds()
		n.Width, n.Height = r.Width, r.Height
	}
	for _, child := range c.Children() {
		n.Children = append(n.Children, NodeOf(child))
	}
	return n
}

// FocusNeighbor moves focus from the focused top-level window to the nearest
// one in dir and returns it. With nothing focused the first window is
// focused. It returns nil when there are no windows.
func (d *Desktop) FocusNeighbor(dir tiling.Direction) *control.Control {
	windows := d.Windows()
	if len(windows) == 0 {
		return nil
	}
	current := -1
	rects := make([]platform.Rect, len(windows))
	for i, w := range windows {
		rects[i] = platform.Rect{X: w.X(), Y: w.Y(), Width: w.Width(), Height: w.Height()}
		if w.Focused() {
			current = i
		}
	}
	next := 0
	if current >= 0 {
		next = tiling.Neighbor(current, dir, rects)
	}
	d.Focus(windows[next])
	d.log.Debug("focus moved", zap.String("direction", dir.String()), zap.String("window", windows[next].ID()))
	return windows[next]
}
