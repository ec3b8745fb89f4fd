package control

import "github.com/1broseidon/relic/internal/platform"

// Hit describes which controls a drawable belongs to.
type Hit struct {
	// Control is the deepest control whose body contains the target.
	Control *Control
	// Windows lists every window containing the target, outermost first.
	Windows []*Control
	// Title is the innermost window whose title bar contains the target.
	Title *Control
}

// Window returns the innermost window containing the target, or nil.
func (h Hit) Window() *Control {
	if len(h.Windows) == 0 {
		return nil
	}
	return h.Windows[len(h.Windows)-1]
}

// Resolve maps a drawable under the pointer back to the control tree rooted
// at root.
func Resolve(root *Control, target platform.Drawable) Hit {
	var hit Hit
	if root == nil || target == nil {
		return hit
	}

	ancestors := make(map[platform.Drawable]bool)
	for d := target; d != nil; d = d.Parent() {
		ancestors[d] = true
	}
	if !ancestors[root.geom.body] {
		return hit
	}

	for c := root; c != nil; {
		hit.Control = c
		if c.chrome != nil {
			hit.Windows = append(hit.Windows, c)
			if ancestors[c.chrome.titleBar] {
				hit.Title = c
			}
		}
		c = childOn(c, ancestors)
	}
	return hit
}

// childOn picks the topmost child whose body is on the ancestor path.
func childOn(c *Control, ancestors map[platform.Drawable]bool) *Control {
	if c.box == nil {
		return nil
	}
	for n := len(c.box.children) - 1; n >= 0; n-- {
		if child := c.box.children[n]; ancestors[child.geom.body] {
			return child
		}
	}
	return nil
}
