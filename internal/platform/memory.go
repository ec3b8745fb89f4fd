package platform

import (
	"sync"
)

// DefaultHeadlessWidth and DefaultHeadlessHeight size a headless surface when
// no size is given.
const (
	DefaultHeadlessWidth  = 1024
	DefaultHeadlessHeight = 768
)

const eventBuffer = 64

func init() {
	Register("headless", func(opts OpenOptions) (Surface, error) {
		return NewMemory(opts.Width, opts.Height), nil
	})
}

// Memory is an in-process surface. It renders nothing and is driven by
// injected events, which makes it the headless surface and the test double.
type Memory struct {
	mu     sync.Mutex
	width  int
	height int
	frames int

	root      Drawable
	events    chan Event
	closeOnce sync.Once
}

var _ Surface = (*Memory)(nil)

// NewMemory creates a headless surface of the given size.
func NewMemory(width, height int) *Memory {
	if width <= 0 {
		width = DefaultHeadlessWidth
	}
	if height <= 0 {
		height = DefaultHeadlessHeight
	}
	m := &Memory{
		width:  width,
		height: height,
		events: make(chan Event, eventBuffer),
	}
	m.root = NewRootNode("surface", m.Size)
	return m
}

func (m *Memory) Root() Drawable { return m.root }

func (m *Memory) NewDrawable(class string) Drawable {
	return NewNode(class)
}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Memory) HitTest(x, y int) Drawable {
	return HitTest(m.root, x, y)
}

func (m *Memory) Events() <-chan Event { return m.events }

// Flush records a presented frame.
func (m *Memory) Flush() error {
	m.mu.Lock()
	m.frames++
	m.mu.Unlock()
	return nil
}

// Frames returns how many times Flush was called.
func (m *Memory) Frames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Close closes the event channel.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.events)
	})
	return nil
}

// Inject queues a host event. Pointer events without a target are hit-tested.
func (m *Memory) Inject(ev Event) {
	switch ev.Kind {
	case EventPointerDown, EventPointerMove, EventPointerUp:
		if ev.Target == nil {
			ev.Target = m.HitTest(ev.X, ev.Y)
		}
	}
	m.events <- ev
}

// Resize changes the surface size and queues a resize event.
func (m *Memory) Resize(width, height int) {
	m.SetSize(width, height)
	m.events <- Event{Kind: EventResize, Width: width, Height: height}
}

// SetSize changes the surface size without queueing an event.
func (m *Memory) SetSize(width, height int) {
	m.mu.Lock()
	m.width = width
	m.height = height
	m.mu.Unlock()
}
