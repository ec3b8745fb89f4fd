package platform

type node struct {
	class   string
	classes []string
	parent  *node
	kids    []*node
	bounds  Rect
	style   Style
	text    string

	// size is set on surface roots only.
	size func() (int, int)
}

// NewNode creates a detached drawable. Surfaces that keep their render tree
// in process hand these out from NewDrawable.
func NewNode(class string) Drawable {
	return &node{class: class}
}

// NewRootNode creates a surface root whose bounds always report size.
func NewRootNode(class string, size func() (int, int)) Drawable {
	return &node{class: class, size: size}
}

func (d *node) Append(child Drawable) {
	c, ok := child.(*node)
	if !ok || c == nil {
		return
	}
	if c.parent != nil {
		c.Detach()
	}
	c.parent = d
	d.kids = append(d.kids, c)
}

func (d *node) Detach() {
	p := d.parent
	if p == nil {
		return
	}
	for i, k := range p.kids {
		if k == d {
			p.kids = append(p.kids[:i], p.kids[i+1:]...)
			break
		}
	}
	d.parent = nil
}

func (d *node) Parent() Drawable {
	if d.parent == nil {
		return nil
	}
	return d.parent
}

func (d *node) Children() []Drawable {
	out := make([]Drawable, len(d.kids))
	for i, k := range d.kids {
		out[i] = k
	}
	return out
}

func (d *node) SetBounds(r Rect) {
	if d.size != nil {
		return
	}
	d.bounds = r
}

func (d *node) Bounds() Rect {
	if d.size != nil {
		w, h := d.size()
		return Rect{Width: w, Height: h}
	}
	return d.bounds
}

func (d *node) SetStyle(s Style) { d.style = s }
func (d *node) Style() Style     { return d.style }
func (d *node) SetText(t string) { d.text = t }
func (d *node) Text() string     { return d.text }
func (d *node) Class() string    { return d.class }

func (d *node) AddClass(class string) {
	if d.HasClass(class) {
		return
	}
	d.classes = append(d.classes, class)
}

func (d *node) RemoveClass(class string) {
	for i, c := range d.classes {
		if c == class {
			d.classes = append(d.classes[:i], d.classes[i+1:]...)
			return
		}
	}
}

func (d *node) HasClass(class string) bool {
	if class == d.class {
		return true
	}
	for _, c := range d.classes {
		if c == class {
			return true
		}
	}
	return false
}
