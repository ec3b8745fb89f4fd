// Package x11 hosts the desktop in a top-level X window.
package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/relic/internal/platform"
	"github.com/1broseidon/relic/internal/theme"
)

const (
	windowName  = "relic"
	eventBuffer = 64

	// textBaseline offsets the first glyph row from the top of a drawable.
	textBaseline = 13
	textPadding  = 4
	maxTextLen   = 255
)

var fontNames = []string{"fixed", "9x15", "8x13", "6x13"}

func init() {
	platform.Register("x11", Open)
}

// Surface is a platform.Surface painting into one X window.
type Surface struct {
	conn    *Connection
	win     xproto.Window
	gc      xproto.Gcontext
	font    xproto.Font
	palette platform.Palette

	mu     sync.Mutex
	width  int
	height int

	root      platform.Drawable
	events    chan platform.Event
	closeOnce sync.Once
	stopOnce  sync.Once
	// stop releases handlers blocked on a full events channel.
	stop chan struct{}
}

var _ platform.Surface = (*Surface)(nil)

// Open connects to the display, maps a window and starts the X event loop.
// Without an explicit size the window covers three quarters of the monitor
// under the pointer.
func Open(opts platform.OpenOptions) (platform.Surface, error) {
	conn, err := NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = platform.DefaultHeadlessWidth, platform.DefaultHeadlessHeight
		if mon, err := conn.PointerMonitor(); err == nil {
			width, height = windowSize(mon)
		}
	}

	s := &Surface{
		conn:    conn,
		palette: opts.Palette,
		width:   width,
		height:  height,
		events:  make(chan platform.Event, eventBuffer),
		stop:    make(chan struct{}),
	}
	if s.palette == nil {
		s.palette = theme.NewPalette(theme.Default())
	}
	s.root = platform.NewRootNode("surface", s.Size)

	if err := s.createWindow(); err != nil {
		conn.Close()
		return nil, err
	}
	s.connectEvents()

	go func() {
		defer close(s.events)
		conn.EventLoop()
	}()
	return s, nil
}

func windowSize(mon *Monitor) (int, int) {
	return max(mon.Width*3/4, 1), max(mon.Height*3/4, 1)
}

func (s *Surface) createWindow() error {
	xc := s.conn.XUtil.Conn()
	screen := s.conn.XUtil.Screen()

	win, err := xproto.NewWindowId(xc)
	if err != nil {
		return err
	}
	// Value list order follows the bit positions of the mask.
	err = xproto.CreateWindowChecked(
		xc,
		screen.RootDepth,
		win,
		s.conn.Root,
		0, 0,
		uint16(s.width), uint16(s.height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{
			0,
			xproto.EventMaskExposure |
				xproto.EventMaskKeyPress |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskPointerMotion |
				xproto.EventMaskStructureNotify,
		},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.win = win

	font, err := xproto.NewFontId(xc)
	if err != nil {
		return err
	}
	opened := false
	for _, name := range fontNames {
		if xproto.OpenFontChecked(xc, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		return fmt.Errorf("no core font available (tried %v)", fontNames)
	}
	s.font = font

	gc, err := xproto.NewGcontextId(xc)
	if err != nil {
		return err
	}
	err = xproto.CreateGCChecked(
		xc,
		gc,
		xproto.Drawable(win),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{0, 0, uint32(font), 0},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to create graphics context: %w", err)
	}
	s.gc = gc

	_ = icccm.WmNameSet(s.conn.XUtil, win, windowName)
	_ = icccm.WmProtocolsSet(s.conn.XUtil, win, []string{"WM_DELETE_WINDOW"})
	xproto.MapWindow(xc, win)
	return nil
}

func (s *Surface) connectEvents() {
	xu := s.conn.XUtil
	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if ev.Detail == xproto.ButtonIndex1 {
			s.emit(pointerEvent(platform.EventPointerDown, ev.EventX, ev.EventY))
		}
	}).Connect(xu, s.win)
	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if ev.Detail == xproto.ButtonIndex1 {
			s.emit(pointerEvent(platform.EventPointerUp, ev.EventX, ev.EventY))
		}
	}).Connect(xu, s.win)
	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		s.emit(pointerEvent(platform.EventPointerMove, ev.EventX, ev.EventY))
	}).Connect(xu, s.win)
	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		// Only the last expose of a series triggers a repaint.
		if ev.Count == 0 {
			s.emit(platform.Event{Kind: platform.EventExpose})
		}
	}).Connect(xu, s.win)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev, ok := s.configured(int(ev.Width), int(ev.Height)); ok {
			s.emit(ev)
		}
	}).Connect(xu, s.win)
	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if quitKey(keybind.KeysymGet(xu, ev.Detail, 0), ev.State) {
			s.emit(platform.Event{Kind: platform.EventClosed})
		}
	}).Connect(xu, s.win)
	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if icccm.IsDeleteProtocol(xu, ev) {
			s.emit(platform.Event{Kind: platform.EventClosed})
		}
	}).Connect(xu, s.win)
}

func pointerEvent(kind platform.EventKind, x, y int16) platform.Event {
	return platform.Event{Kind: kind, X: int(x), Y: int(y)}
}

// configured records a new window size and reports a resize event when the
// size actually changed. Moves also produce ConfigureNotify.
func (s *Surface) configured(width, height int) (platform.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.width && height == s.height {
		return platform.Event{}, false
	}
	s.width, s.height = width, height
	return platform.Event{Kind: platform.EventResize, Width: width, Height: height}, true
}

// emit queues ev for the desktop. Once the surface is closing, events are
// dropped instead of blocking the X event loop.
func (s *Surface) emit(ev platform.Event) {
	select {
	case s.events <- ev:
	case <-s.stop:
	}
}

func (s *Surface) stopEmitting() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Surface) Root() platform.Drawable { return s.root }

func (s *Surface) NewDrawable(class string) platform.Drawable {
	return platform.NewNode(class)
}

func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *Surface) HitTest(x, y int) platform.Drawable {
	return platform.HitTest(s.root, x, y)
}

func (s *Surface) Events() <-chan platform.Event { return s.events }

// SetSize asks the X server to resize the window. The resize event follows
// once the server confirms.
func (s *Surface) SetSize(width, height int) {
	xproto.ConfigureWindow(
		s.conn.XUtil.Conn(),
		s.win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(max(width, 1)), uint32(max(height, 1))},
	)
}

// Close destroys the window and stops the event loop.
func (s *Surface) Close() error {
	s.stopEmitting()
	s.closeOnce.Do(func() {
		xc := s.conn.XUtil.Conn()
		xevent.Detach(s.conn.XUtil, s.win)
		xproto.FreeGC(xc, s.gc)
		xproto.CloseFont(xc, s.font)
		xproto.DestroyWindow(xc, s.win)
		s.conn.Quit()
		s.conn.Close()
	})
	return nil
}

// Flush paints the drawable tree back to front.
func (s *Surface) Flush() error {
	s.paint(s.root, 0, 0)
	s.conn.XUtil.Conn().Sync()
	return nil
}

func (s *Surface) paint(d platform.Drawable, originX, originY int) {
	r := d.Bounds()
	abs := platform.Rect{X: originX + r.X, Y: originY + r.Y, Width: r.Width, Height: r.Height}
	if rect, ok := fillRect(abs); ok {
		bg, fg := s.palette.Colors(d)
		xc := s.conn.XUtil.Conn()
		xproto.ChangeGC(xc, s.gc, xproto.GcForeground, []uint32{bg})
		xproto.PolyFillRectangle(xc, xproto.Drawable(s.win), s.gc, []xproto.Rectangle{rect})

		if text := clipText(d.Text()); text != "" {
			xproto.ChangeGC(xc, s.gc, xproto.GcForeground|xproto.GcBackground, []uint32{fg, bg})
			xproto.ImageText8(xc, byte(len(text)), xproto.Drawable(s.win), s.gc,
				int16(abs.X+textPadding), int16(abs.Y+textBaseline), text)
		}
	}
	for _, child := range d.Children() {
		s.paint(child, abs.X, abs.Y)
	}
}

// fillRect converts a surface rectangle to an X rectangle, dropping empty
// or off-window areas.
func fillRect(r platform.Rect) (xproto.Rectangle, bool) {
	if r.Width <= 0 || r.Height <= 0 {
		return xproto.Rectangle{}, false
	}
	if r.X < 0 {
		r.Width += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.Height += r.Y
		r.Y = 0
	}
	if r.Width <= 0 || r.Height <= 0 {
		return xproto.Rectangle{}, false
	}
	return xproto.Rectangle{
		X:      int16(min(r.X, 1<<15-1)),
		Y:      int16(min(r.Y, 1<<15-1)),
		Width:  uint16(min(r.Width, 1<<16-1)),
		Height: uint16(min(r.Height, 1<<16-1)),
	}, true
}

// clipText keeps what ImageText8 can draw: at most 255 single-byte glyphs.
func clipText(text string) string {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if len(out) == maxTextLen {
			break
		}
		if r > 0xff {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return string(out)
}
