package control

import (
	"errors"

	"github.com/1broseidon/relic/internal/platform"
)

var ErrNotWindow = errors.New("only windows can be dragged")

// Phase represents the current phase of pointer interaction
type Phase int

const (
	// PhaseIdle means no window is being dragged
	PhaseIdle Phase = iota
	// PhaseDragging means one window follows the pointer
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragInfo captures the state of the active drag.
type DragInfo struct {
	Window        *Control
	PointerOrigin platform.Point // surface coordinates at pointer-down
	WindowOrigin  platform.Point // window x,y at pointer-down
}

// Interaction holds the single active drag of a desktop. At most one window
// drags at a time.
type Interaction struct {
	active *DragInfo
}

// NewInteraction creates an idle interaction state.
func NewInteraction() *Interaction {
	return &Interaction{}
}

// Phase reports whether a drag is in progress.
func (i *Interaction) Phase() Phase {
	if i.active == nil {
		return PhaseIdle
	}
	return PhaseDragging
}

// Active returns the current drag, if any.
func (i *Interaction) Active() (DragInfo, bool) {
	if i.active == nil {
		return DragInfo{}, false
	}
	return *i.active, true
}

// Begin starts dragging w from the given pointer position. A drag already in
// progress is replaced.
func (i *Interaction) Begin(w *Control, pointer platform.Point) error {
	if w == nil {
		return ErrNilControl
	}
	if w.kind != KindWindow {
		return ErrNotWindow
	}
	i.active = &DragInfo{
		Window:        w,
		PointerOrigin: pointer,
		WindowOrigin:  platform.Point{X: w.geom.x, Y: w.geom.y},
	}
	return nil
}

// Move applies the pointer delta to the dragged window's start position,
// clamped per axis so the window stays inside a surface of the given size.
// It reports whether a window moved.
func (i *Interaction) Move(pointer platform.Point, surfaceWidth, surfaceHeight int) bool {
	d := i.active
	if d == nil {
		return false
	}
	w := d.Window
	x := d.WindowOrigin.X + pointer.X - d.PointerOrigin.X
	y := d.WindowOrigin.Y + pointer.Y - d.PointerOrigin.Y
	w.geom.x = Clamp(x, 0, surfaceWidth-w.geom.width)
	w.geom.y = Clamp(y, 0, surfaceHeight-w.geom.height)
	w.UpdateSize()
	return true
}

// End finishes the active drag. Any pointer-up ends it.
func (i *Interaction) End() bool {
	if i.active == nil {
		return false
	}
	i.active = nil
	return true
}

// Cancel drops the active drag if the dragged window is c or lives inside c.
func (i *Interaction) Cancel(c *Control) bool {
	if i.active == nil || c == nil || !c.Contains(i.active.Window) {
		return false
	}
	i.active = nil
	return true
}

// Reset returns to idle unconditionally.
func (i *Interaction) Reset() {
	i.active = nil
}

// Clamp bounds n to [lo, hi]. When hi < lo, lo wins, so an oversized window
// sticks to the surface origin.
func Clamp(n, lo, hi int) int {
	if n <= lo {
		return lo
	}
	if n >= hi {
		return max(hi, lo)
	}
	return n
}

// Contain moves c so that it lies inside a surface of the given size. It
// reports whether the position changed.
func Contain(c *Control, surfaceWidth, surfaceHeight int) bool {
	x := Clamp(c.geom.x, 0, surfaceWidth-c.geom.width)
	y := Clamp(c.geom.y, 0, surfaceHeight-c.geom.height)
	if x == c.geom.x && y == c.geom.y {
		return false
	}
	c.geom.x, c.geom.y = x, y
	c.UpdateSize()
	return true
}
