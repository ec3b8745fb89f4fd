package platform

// Rect describes a rectangular region in surface-local units.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Point is a surface-local coordinate pair.
type Point struct {
	X int
	Y int
}

// Style carries the visual attributes applied to a drawable. Empty colors
// inherit the theme default for the drawable's class.
type Style struct {
	Background string
	Foreground string
	Font       string
	FontSize   int
}

// Drawable is one node of the host surface's render tree. Bounds are
// relative to the parent drawable.
type Drawable interface {
	// Append attaches child beneath d. Later children paint above earlier ones.
	Append(child Drawable)
	// Detach removes d from its parent. The drawable stays usable.
	Detach()
	Parent() Drawable
	Children() []Drawable

	SetBounds(r Rect)
	// Bounds returns the rendered rectangle. A surface root reports the
	// current surface size.
	Bounds() Rect

	SetStyle(s Style)
	Style() Style
	SetText(text string)
	Text() string

	// Class returns the class the drawable was created with.
	Class() string
	AddClass(class string)
	RemoveClass(class string)
	HasClass(class string) bool
}

// Surface abstracts the host drawing area the desktop renders into.
type Surface interface {
	Root() Drawable
	NewDrawable(class string) Drawable
	Size() (width, height int)
	// HitTest returns the deepest drawable containing the surface point, or
	// nil when the point is outside the surface.
	HitTest(x, y int) Drawable
	// Events delivers host input in delivery order. The channel is closed
	// when the surface goes away.
	Events() <-chan Event
	// Flush presents pending drawing.
	Flush() error
	Close() error
}

// HitTest walks the drawable tree under root and returns the deepest node
// containing (x, y). Later siblings win over earlier ones.
func HitTest(root Drawable, x, y int) Drawable {
	if root == nil {
		return nil
	}
	return hitTest(root, 0, 0, x, y)
}

func hitTest(d Drawable, originX, originY, x, y int) Drawable {
	r := d.Bounds()
	abs := Rect{X: originX + r.X, Y: originY + r.Y, Width: r.Width, Height: r.Height}
	if !abs.Contains(x, y) {
		return nil
	}
	children := d.Children()
	for i := len(children) - 1; i >= 0; i-- {
		if hit := hitTest(children[i], abs.X, abs.Y, x, y); hit != nil {
			return hit
		}
	}
	return d
}

// Origin returns the surface-absolute top-left corner of d.
func Origin(d Drawable) Point {
	var p Point
	for n := d; n != nil; n = n.Parent() {
		r := n.Bounds()
		p.X += r.X
		p.Y += r.Y
	}
	return p
}

// Contains reports whether d is ancestor or equal to target.
func Contains(d, target Drawable) bool {
	for n := target; n != nil; n = n.Parent() {
		if n == d {
			return true
		}
	}
	return false
}
