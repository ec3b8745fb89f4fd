// Package control implements the desktop control tree: geometry, style,
// containers with content regions, and windows with chrome.
//
// Every control is a Control record. Its Kind selects which optional parts
// are present: containers carry a child list and content region, windows
// additionally carry chrome. Republishing runs as an ordered pipeline per
// kind: geometry then chrome for size, style then title for style.
//
// Controls are not safe for concurrent use. All mutation is expected on the
// desktop's event goroutine.
package control

import (
	"errors"

	"github.com/google/uuid"

	"github.com/1broseidon/relic/internal/platform"
)

// Drawable classes used by the control tree.
const (
	ClassDesktop     = "relic-desktop"
	ClassBody        = "relic-container-body"
	ClassInner       = "relic-container-inner"
	ClassContent     = "relic-container-content"
	ClassWindowBody  = "relic-window-body"
	ClassBorder      = "relic-window-border"
	ClassInnerBorder = "relic-window-inner-border"
	ClassTitle       = "relic-window-title"
	ClassCornerNW    = "relic-window-corner-nw"
	ClassCornerNE    = "relic-window-corner-ne"
	ClassCornerSW    = "relic-window-corner-sw"
	ClassCornerSE    = "relic-window-corner-se"

	ClassTitleFocused  = "title-focused"
	ClassBorderFocused = "border-focused"
)

var (
	ErrNilControl         = errors.New("control is nil")
	ErrNotContainer       = errors.New("control cannot hold children")
	ErrAlreadyParented    = errors.New("control already belongs to a container")
	ErrCycle              = errors.New("control cannot contain itself")
	ErrNameRequired       = errors.New("control name must be specified")
	ErrUnknownBorderStyle = errors.New("unknown window style")
)

// Kind selects which parts a control carries.
type Kind int

const (
	// KindControl is a styled leaf.
	KindControl Kind = iota
	// KindContainer holds children inside a content region.
	KindContainer
	// KindWindow is a container with chrome.
	KindWindow
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindContainer:
		return "container"
	case KindWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Options configures a new control. Zero Width, Height and FontSize take the
// package defaults.
type Options struct {
	Name            string
	X               int
	Y               int
	Width           int
	Height          int
	BackgroundColor string
	ForegroundColor string
	Font            string
	FontSize        int
	Tag             string
}

// Control is one node of the rendering tree.
type Control struct {
	// Tag is any user defined string.
	Tag string

	id    string
	kind  Kind
	geom  Geometry
	style Style

	box    *box    // containers and windows
	chrome *chrome // windows

	parent *Control
	root   bool
}

// New creates a standalone styled control. It joins the rendering tree when
// added to a container.
func New(s platform.Surface, opts Options) *Control {
	return newControl(s.NewDrawable(ClassBody), KindControl, opts)
}

// NewContainer creates a standalone container.
func NewContainer(s platform.Surface, opts Options) *Control {
	c := newControl(s.NewDrawable(ClassBody), KindContainer, opts)
	c.box = newBox(s, c.geom.body)
	return c
}

// NewRoot binds a container to the surface root. The root never places its
// own body; the surface owns that size.
func NewRoot(s platform.Surface) *Control {
	body := s.Root()
	body.AddClass(ClassDesktop)
	body.AddClass(ClassBody)
	c := newControl(body, KindContainer, Options{})
	c.root = true
	c.box = newBox(s, body)
	c.UpdateSize()
	return c
}

func newControl(body platform.Drawable, kind Kind, opts Options) *Control {
	return &Control{
		Tag:   opts.Tag,
		id:    uuid.NewString(),
		kind:  kind,
		geom:  newGeometry(body, opts),
		style: newStyle(opts),
	}
}

func (c *Control) ID() string    { return c.id }
func (c *Control) Kind() Kind    { return c.kind }
func (c *Control) Name() string  { return c.style.name }
func (c *Control) IsRoot() bool  { return c.root }
func (c *Control) X() int        { return c.geom.x }
func (c *Control) Y() int        { return c.geom.y }
func (c *Control) Width() int    { return c.geom.width }
func (c *Control) Height() int   { return c.geom.height }
func (c *Control) Font() string  { return c.style.font }
func (c *Control) FontSize() int { return c.style.fontSize }

// Rect returns the last-set placement.
func (c *Control) Rect() platform.Rect { return c.geom.Rect() }

func (c *Control) BackgroundColor() string { return c.style.background }
func (c *Control) ForegroundColor() string { return c.style.foreground }

// Body returns the drawable that represents the control on the surface.
func (c *Control) Body() platform.Drawable { return c.geom.body }

// Parent returns the container the control was added to, or nil.
func (c *Control) Parent() *Control { return c.parent }

// SetX moves the control horizontally and republishes its placement.
func (c *Control) SetX(x int) {
	c.geom.x = x
	c.UpdateSize()
}

// SetY moves the control vertically and republishes its placement.
func (c *Control) SetY(y int) {
	c.geom.y = y
	c.UpdateSize()
}

// SetWidth resizes the control and republishes its placement.
func (c *Control) SetWidth(width int) {
	c.geom.width = width
	c.UpdateSize()
}

// SetHeight resizes the control and republishes its placement.
func (c *Control) SetHeight(height int) {
	c.geom.height = height
	c.UpdateSize()
}

// SetRect replaces all four geometry fields and republishes once.
func (c *Control) SetRect(r platform.Rect) {
	c.geom.x, c.geom.y = r.X, r.Y
	c.geom.width, c.geom.height = r.Width, r.Height
	c.UpdateSize()
}

// SetBackgroundColor changes the fill color and republishes style.
func (c *Control) SetBackgroundColor(color string) {
	c.style.background = color
	c.UpdateStyle()
}

// SetForegroundColor changes the text color and republishes style.
func (c *Control) SetForegroundColor(color string) {
	c.style.foreground = color
	c.UpdateStyle()
}

// SetFont changes the font passed through to the surface.
func (c *Control) SetFont(font string, size int) {
	c.style.font = font
	if size == 0 {
		size = DefaultFontSize
	}
	c.style.fontSize = size
	c.UpdateStyle()
}

// UpdateSize republishes placement. Windows select insets from their border
// style first and place chrome last; containers lay out children before
// their own body.
func (c *Control) UpdateSize() {
	if c.chrome != nil {
		c.box.insets = c.chrome.style.Insets()
	}
	if c.box != nil {
		c.layout()
	} else {
		c.geom.place()
	}
	if c.chrome != nil {
		c.chrome.place(c.geom.width, c.geom.height, c.box.insets)
	}
}

// UpdateStyle republishes colors and font. Containers style their content
// region, not the outer body; windows then refresh the title text.
func (c *Control) UpdateStyle() {
	target := c.geom.body
	if c.box != nil {
		target = c.box.content
	}
	target.SetStyle(c.style.drawable())
	if c.chrome != nil {
		c.chrome.titleBar.SetText(c.chrome.title)
	}
}

// Walk visits c and its descendants in paint order until fn returns false.
func (c *Control) Walk(fn func(*Control) bool) bool {
	if !fn(c) {
		return false
	}
	if c.box == nil {
		return true
	}
	for _, child := range c.box.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the control with the given ID in the subtree rooted at c.
func (c *Control) Find(id string) *Control {
	var found *Control
	c.Walk(func(n *Control) bool {
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Contains reports whether other is c or one of its descendants.
func (c *Control) Contains(other *Control) bool {
	for n := other; n != nil; n = n.parent {
		if n == c {
			return true
		}
	}
	return false
}
