package control

import "github.com/1broseidon/relic/internal/platform"

// Insets reserve space on each side of a container body. The rest is the
// content region.
type Insets struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// Region returns the content rectangle for a body of the given size,
// relative to the body.
func (in Insets) Region(bodyWidth, bodyHeight int) platform.Rect {
	return platform.Rect{
		X:      in.Left,
		Y:      in.Top,
		Width:  bodyWidth - in.Left - in.Right,
		Height: bodyHeight - in.Top - in.Bottom,
	}
}

type box struct {
	children []*Control
	insets   Insets

	// inner is positioned at the insets; content fills inner and hosts the
	// children's bodies.
	inner   platform.Drawable
	content platform.Drawable
}

func newBox(s platform.Surface, body platform.Drawable) *box {
	b := &box{
		inner:   s.NewDrawable(ClassInner),
		content: s.NewDrawable(ClassContent),
	}
	body.Append(b.inner)
	b.inner.Append(b.content)
	return b
}

// Children returns the child controls in paint order.
func (c *Control) Children() []*Control {
	if c.box == nil {
		return nil
	}
	out := make([]*Control, len(c.box.children))
	copy(out, c.box.children)
	return out
}

// Content returns the drawable children are attached to, or nil for leaves.
func (c *Control) Content() platform.Drawable {
	if c.box == nil {
		return nil
	}
	return c.box.content
}

// Insets returns the insets used by the last layout pass.
func (c *Control) Insets() Insets {
	if c.box == nil {
		return Insets{}
	}
	return c.box.insets
}

// SetInsets changes a container's insets and lays it out again. Windows
// derive insets from their border style, so the next layout overrides them.
func (c *Control) SetInsets(in Insets) {
	if c.box == nil {
		return
	}
	c.box.insets = in
	c.UpdateSize()
}

// ContentRegion returns the content rectangle applied by the last layout
// pass, relative to the body.
func (c *Control) ContentRegion() platform.Rect {
	if c.box == nil {
		return platform.Rect{}
	}
	return c.box.inner.Bounds()
}

// AddChild appends child, attaches its body beneath the content region and
// republishes the child's placement and style before returning.
func (c *Control) AddChild(child *Control) error {
	if c.box == nil {
		return ErrNotContainer
	}
	if child == nil {
		return ErrNilControl
	}
	if child.parent != nil || child.root {
		return ErrAlreadyParented
	}
	if child.Contains(c) {
		return ErrCycle
	}

	c.box.children = append(c.box.children, child)
	child.parent = c
	c.box.content.Append(child.geom.body)
	child.UpdateSize()
	child.UpdateStyle()
	return nil
}

// RemoveChild removes the most recently added child with the given name.
// The removed control is detached from the surface and loses its parent; its
// drawables stay alive so it can be added again. An unmatched name returns
// nil with no error.
func (c *Control) RemoveChild(name string) (*Control, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if c.box == nil {
		return nil, nil
	}
	for n := len(c.box.children) - 1; n >= 0; n-- {
		child := c.box.children[n]
		if child.style.name != name {
			continue
		}
		c.box.children = append(c.box.children[:n], c.box.children[n+1:]...)
		child.geom.body.Detach()
		child.parent = nil
		return child, nil
	}
	return nil, nil
}

// Clear removes every child and returns them in paint order.
func (c *Control) Clear() []*Control {
	if c.box == nil {
		return nil
	}
	removed := c.box.children
	c.box.children = nil
	for _, child := range removed {
		child.geom.body.Detach()
		child.parent = nil
	}
	return removed
}

// layout settles every child first, then the container's own body, then
// derives the content region from the rendered body size.
func (c *Control) layout() {
	children := c.box.children
	for n := len(children) - 1; n >= 0; n-- {
		children[n].UpdateSize()
	}
	if !c.root {
		c.geom.place()
	}
	body := c.geom.body.Bounds()
	region := c.box.insets.Region(body.Width, body.Height)
	c.box.inner.SetBounds(region)
	c.box.content.SetBounds(platform.Rect{Width: region.Width, Height: region.Height})
}
