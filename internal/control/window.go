package control

import (
	"fmt"
	"strings"

	"github.com/1broseidon/relic/internal/platform"
)

// BorderStyle names a window frame. It determines the window's insets.
type BorderStyle string

const (
	BorderSizable BorderStyle = "sizable"
	BorderFixed   BorderStyle = "fixed"
	BorderDialog  BorderStyle = "dialog"
	BorderTool    BorderStyle = "tool"
	BorderNone    BorderStyle = "none"
)

// Chrome metrics in surface units.
const (
	titleTop    = 4
	titleHeight = 18
	cornerSize  = 23
)

// ParseBorderStyle resolves a window style name. Empty means sizable.
func ParseBorderStyle(s string) (BorderStyle, error) {
	switch b := BorderStyle(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BorderSizable, nil
	case BorderSizable, BorderFixed, BorderDialog, BorderTool, BorderNone:
		return b, nil
	default:
		return "", fmt.Errorf("%w %q (want sizable, fixed, dialog, tool or none)", ErrUnknownBorderStyle, s)
	}
}

// Insets returns the content insets reserved by the frame. Only sizable
// frames define non-zero insets so far.
func (b BorderStyle) Insets() Insets {
	switch b {
	case BorderSizable:
		return Insets{Top: 23, Left: 4, Right: 4, Bottom: 4}
	default:
		return Insets{}
	}
}

// WindowOptions configures a new window.
type WindowOptions struct {
	Options
	Title string
	// WindowStyle is one of sizable (default), fixed, dialog, tool, none.
	WindowStyle string
}

type chrome struct {
	title string
	style BorderStyle

	border      platform.Drawable
	innerBorder platform.Drawable
	titleBar    platform.Drawable
	corners     [4]platform.Drawable // nw, ne, sw, se
}

// NewWindow creates a standalone window. The frame is attached below the
// content host and the title bar above it, so frames without insets still
// expose a title to press on.
func NewWindow(s platform.Surface, opts WindowOptions) (*Control, error) {
	style, err := ParseBorderStyle(opts.WindowStyle)
	if err != nil {
		return nil, err
	}

	body := s.NewDrawable(ClassBody)
	body.AddClass(ClassWindowBody)
	c := newControl(body, KindWindow, opts.Options)

	ch := &chrome{
		title:       opts.Title,
		style:       style,
		border:      s.NewDrawable(ClassBorder),
		innerBorder: s.NewDrawable(ClassInnerBorder),
		titleBar:    s.NewDrawable(ClassTitle),
	}
	for i, class := range []string{ClassCornerNW, ClassCornerNE, ClassCornerSW, ClassCornerSE} {
		ch.corners[i] = s.NewDrawable(class)
	}

	body.Append(ch.border)
	body.Append(ch.innerBorder)
	for _, corner := range ch.corners {
		body.Append(corner)
	}

	c.chrome = ch
	c.box = newBox(s, body)
	body.Append(ch.titleBar)
	return c, nil
}

// place derives every chrome rectangle from the current size and insets.
func (ch *chrome) place(width, height int, in Insets) {
	ch.border.SetBounds(platform.Rect{Width: width - 2, Height: height - 2})
	ch.innerBorder.SetBounds(platform.Rect{X: 3, Y: 3, Width: width - 8, Height: height - 8})
	title := platform.Rect{X: in.Left, Y: titleTop, Width: width - in.Left - in.Right}
	if ch.style != BorderNone {
		title.Height = titleHeight
	}
	ch.titleBar.SetBounds(title)

	if ch.style != BorderSizable {
		for _, corner := range ch.corners {
			corner.SetBounds(platform.Rect{})
		}
		return
	}
	ch.corners[0].SetBounds(platform.Rect{Width: cornerSize, Height: cornerSize})
	ch.corners[1].SetBounds(platform.Rect{X: width - cornerSize, Width: cornerSize, Height: cornerSize})
	ch.corners[2].SetBounds(platform.Rect{Y: height - cornerSize, Width: cornerSize, Height: cornerSize})
	ch.corners[3].SetBounds(platform.Rect{X: width - cornerSize, Y: height - cornerSize, Width: cornerSize, Height: cornerSize})
}

// Title returns the window title, or "" for other kinds.
func (c *Control) Title() string {
	if c.chrome == nil {
		return ""
	}
	return c.chrome.title
}

// SetTitle changes the window title and republishes style.
func (c *Control) SetTitle(title string) {
	if c.chrome == nil {
		return
	}
	c.chrome.title = title
	c.UpdateStyle()
}

// BorderStyle returns the window frame, or "" for other kinds.
func (c *Control) BorderStyle() BorderStyle {
	if c.chrome == nil {
		return ""
	}
	return c.chrome.style
}

// TitleBar returns the title drawable of a window, or nil.
func (c *Control) TitleBar() platform.Drawable {
	if c.chrome == nil {
		return nil
	}
	return c.chrome.titleBar
}

// Chrome returns the frame drawables of a window in attach order: border,
// inner border, the four corners, title.
func (c *Control) Chrome() []platform.Drawable {
	if c.chrome == nil {
		return nil
	}
	ch := c.chrome
	out := []platform.Drawable{ch.border, ch.innerBorder}
	out = append(out, ch.corners[:]...)
	return append(out, ch.titleBar)
}

// Focus marks the window body as focused. Focusing is idempotent.
func (c *Control) Focus() {
	if c.chrome == nil {
		return
	}
	c.geom.body.AddClass(ClassTitleFocused)
	c.geom.body.AddClass(ClassBorderFocused)
}

// Blur removes the focused markers.
func (c *Control) Blur() {
	if c.chrome == nil {
		return
	}
	c.geom.body.RemoveClass(ClassTitleFocused)
	c.geom.body.RemoveClass(ClassBorderFocused)
}

// Focused reports whether the window carries the focused markers.
func (c *Control) Focused() bool {
	return c.chrome != nil && c.geom.body.HasClass(ClassTitleFocused)
}
