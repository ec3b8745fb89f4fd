package platform

// EventKind identifies a host surface event.
type EventKind int

const (
	// EventPointerDown is a primary button press.
	EventPointerDown EventKind = iota
	// EventPointerMove is pointer motion, with or without a button held.
	EventPointerMove
	// EventPointerUp is a primary button release.
	EventPointerUp
	// EventResize reports a new surface size in Width and Height.
	EventResize
	// EventExpose asks for a repaint.
	EventExpose
	// EventClosed means the host surface went away.
	EventClosed
)

// String returns the string representation of the kind
func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointer-down"
	case EventPointerMove:
		return "pointer-move"
	case EventPointerUp:
		return "pointer-up"
	case EventResize:
		return "resize"
	case EventExpose:
		return "expose"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is one host surface event. X and Y are surface coordinates for
// pointer events; Target is the drawable under the pointer when the surface
// knows it.
type Event struct {
	Kind   EventKind
	X      int
	Y      int
	Width  int
	Height int
	Target Drawable
}

// Point returns the pointer position of the event.
func (e Event) Point() Point {
	return Point{X: e.X, Y: e.Y}
}
