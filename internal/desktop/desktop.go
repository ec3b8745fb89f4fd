// Package desktop binds a control tree to a host surface and reacts to the
// surface's events on a single goroutine.
package desktop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/platform"
)

// ErrNotRunning is returned by Do after Run has returned.
var ErrNotRunning = errors.New("desktop event loop is not running")

// Options configures a desktop. Either Surface or SurfaceName is required.
type Options struct {
	// Surface is used as is when set.
	Surface platform.Surface
	// SurfaceName selects a registered driver when Surface is nil.
	SurfaceName string
	Open        platform.OpenOptions

	// Gap separates windows in grid-like arrangements.
	Gap    int
	Logger *zap.Logger
}

type call struct {
	fn   func(*Desktop) error
	done chan error
}

// Desktop owns the root container of one surface. Its methods are not safe
// for concurrent use; other goroutines go through Do while Run is active.
type Desktop struct {
	surface platform.Surface
	root    *control.Control
	drag    *control.Interaction
	gap     int
	log     *zap.Logger

	calls   chan call
	stopped chan struct{}
}

// New opens the host surface and binds the root container to it. A missing
// or unresolvable surface is fatal.
func New(opts Options) (*Desktop, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	surface := opts.Surface
	if surface == nil {
		s, err := platform.Open(opts.SurfaceName, opts.Open)
		if err != nil {
			return nil, err
		}
		surface = s
	}

	d := &Desktop{
		surface: surface,
		root:    control.NewRoot(surface),
		drag:    control.NewInteraction(),
		gap:     opts.Gap,
		log:     logger,
		calls:   make(chan call),
		stopped: make(chan struct{}),
	}
	width, height := surface.Size()
	d.log.Info("desktop bound to surface", zap.Int("width", width), zap.Int("height", height))
	return d, nil
}

func (d *Desktop) Surface() platform.Surface         { return d.surface }
func (d *Desktop) Root() *control.Control            { return d.root }
func (d *Desktop) Interaction() *control.Interaction { return d.drag }
func (d *Desktop) Logger() *zap.Logger               { return d.log }

// Close releases the surface.
func (d *Desktop) Close() error {
	return d.surface.Close()
}

// Run processes surface events and queued calls in delivery order until ctx
// is done or the surface closes. It must be called at most once.
func (d *Desktop) Run(ctx context.Context) error {
	defer close(d.stopped)
	if err := d.surface.Flush(); err != nil {
		return fmt.Errorf("initial flush: %w", err)
	}

	events := d.surface.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || ev.Kind == platform.EventClosed {
				d.log.Info("surface closed")
				return nil
			}
			if err := d.HandleEvent(ev); err != nil {
				d.log.Warn("event handling failed", zap.Stringer("event", ev.Kind), zap.Error(err))
			}
		case c := <-d.calls:
			err := c.fn(d)
			if ferr := d.surface.Flush(); ferr != nil && err == nil {
				err = ferr
			}
			c.done <- err
		}
	}
}

// Do runs fn on the event goroutine and waits for it.
func (d *Desktop) Do(ctx context.Context, fn func(*Desktop) error) error {
	c := call{fn: fn, done: make(chan error, 1)}
	select {
	case d.calls <- c:
	case <-d.stopped:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleEvent applies one host event and presents the result.
func (d *Desktop) HandleEvent(ev platform.Event) error {
	switch ev.Kind {
	case platform.EventPointerDown:
		d.pointerDown(ev)
	case platform.EventPointerMove:
		d.pointerMove(ev)
	case platform.EventPointerUp:
		if d.drag.End() {
			d.log.Debug("drag ended", zap.Int("x", ev.X), zap.Int("y", ev.Y))
		}
	case platform.EventResize:
		d.Relayout()
	case platform.EventExpose, platform.EventClosed:
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
	return d.surface.Flush()
}

func (d *Desktop) pointerDown(ev platform.Event) {
	target := ev.Target
	if target == nil {
		target = d.surface.HitTest(ev.X, ev.Y)
	}
	hit := control.Resolve(d.root, target)
	d.focusChain(hit.Windows)

	if hit.Title == nil {
		return
	}
	if err := d.drag.Begin(hit.Title, ev.Point()); err != nil {
		d.log.Warn("drag rejected", zap.Error(err))
		return
	}
	d.log.Debug("drag started",
		zap.String("window", hit.Title.Name()),
		zap.Int("x", ev.X), zap.Int("y", ev.Y))
}

func (d *Desktop) pointerMove(ev platform.Event) {
	active, ok := d.drag.Active()
	if !ok {
		return
	}
	parent := active.Window.Parent()
	if parent == nil {
		d.drag.Cancel(active.Window)
		return
	}
	area := parent.ContentRegion()
	d.drag.Move(ev.Point(), area.Width, area.Height)
}

// Focus focuses w and the windows containing it and blurs every other
// window. A nil w blurs all windows.
func (d *Desktop) Focus(w *control.Control) {
	var chain []*control.Control
	for c := w; c != nil; c = c.Parent() {
		if c.Kind() == control.KindWindow {
			chain = append([]*control.Control{c}, chain...)
		}
	}
	d.focusChain(chain)
}

func (d *Desktop) focusChain(chain []*control.Control) {
	keep := make(map[*control.Control]bool, len(chain))
	for _, w := range chain {
		keep[w] = true
	}
	d.root.Walk(func(c *control.Control) bool {
		if c.Kind() == control.KindWindow && !keep[c] {
			c.Blur()
		}
		return true
	})
	for _, w := range chain {
		w.Focus()
	}
}

// Relayout republishes the whole tree after the surface size changed and
// moves every window back inside its container.
func (d *Desktop) Relayout() {
	d.root.UpdateSize()
	d.containAll()
	w, h := d.surface.Size()
	d.log.Debug("surface resized", zap.Int("width", w), zap.Int("height", h))
}

func (d *Desktop) containAll() {
	d.root.Walk(func(c *control.Control) bool {
		if c.Kind() != control.KindWindow || c.Parent() == nil {
			return true
		}
		area := c.Parent().ContentRegion()
		control.Contain(c, area.Width, area.Height)
		return true
	})
}

// AddChild adds c to the root container.
func (d *Desktop) AddChild(c *control.Control) error {
	return d.AddTo(d.root, c)
}

// AddTo adds c to parent. A window is moved inside the parent's content
// region.
func (d *Desktop) AddTo(parent, c *control.Control) error {
	if err := parent.AddChild(c); err != nil {
		return err
	}
	if c.Kind() == control.KindWindow {
		area := parent.ContentRegion()
		control.Contain(c, area.Width, area.Height)
	}
	return nil
}

// RemoveChild removes the most recent root child with the given name. An
// empty name is a usage warning and leaves the tree untouched.
func (d *Desktop) RemoveChild(name string) (*control.Control, error) {
	return d.RemoveFrom(d.root, name)
}

// RemoveFrom removes the most recent child of parent with the given name and
// cancels a drag running inside it.
func (d *Desktop) RemoveFrom(parent *control.Control, name string) (*control.Control, error) {
	removed, err := parent.RemoveChild(name)
	if err != nil {
		d.log.Warn("removeChild called without a name", zap.String("parent", parent.Name()), zap.Error(err))
		return nil, err
	}
	if removed == nil {
		d.log.Debug("removeChild found no match", zap.String("name", name))
		return nil, nil
	}
	d.drag.Cancel(removed)
	return removed, nil
}

// Lookup finds a control by ID, falling back to the first control with the
// given name in paint order.
func (d *Desktop) Lookup(ref string) *control.Control {
	if ref == "" {
		return nil
	}
	if c := d.root.Find(ref); c != nil {
		return c
	}
	var found *control.Control
	d.root.Walk(func(c *control.Control) bool {
		if c.Name() == ref {
			found = c
			return false
		}
		return true
	})
	return found
}

// Windows returns the root's top-level windows in paint order.
func (d *Desktop) Windows() []*control.Control {
	var out []*control.Control
	for _, c := range d.root.Children() {
		if c.Kind() == control.KindWindow {
			out = append(out, c)
		}
	}
	return out
}
