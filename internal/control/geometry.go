package control

import "github.com/1broseidon/relic/internal/platform"

// Default geometry and font values applied to zero options.
const (
	DefaultWidth    = 25
	DefaultHeight   = 25
	DefaultFontSize = 12
)

// Geometry holds the placement of one control and the drawable it owns.
// The drawable is only touched through place.
type Geometry struct {
	x      int
	y      int
	width  int
	height int

	body platform.Drawable
}

func newGeometry(body platform.Drawable, opts Options) Geometry {
	g := Geometry{
		x:      opts.X,
		y:      opts.Y,
		width:  opts.Width,
		height: opts.Height,
		body:   body,
	}
	if g.width == 0 {
		g.width = DefaultWidth
	}
	if g.height == 0 {
		g.height = DefaultHeight
	}
	return g
}

// Rect returns the last-set placement.
func (g *Geometry) Rect() platform.Rect {
	return platform.Rect{X: g.x, Y: g.y, Width: g.width, Height: g.height}
}

// place publishes the four fields onto the body drawable.
func (g *Geometry) place() {
	g.body.SetBounds(g.Rect())
}
