// Package term renders the desktop into a terminal with tcell. Surface units
// are virtual pixels; every terminal cell covers CellWidth x CellHeight of
// them so window geometry stays independent of the host.
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/platform"
	"github.com/1broseidon/relic/internal/theme"
)

const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16

	eventBuffer = 64
)

func init() {
	platform.Register("term", Open)
}

// Surface is a platform.Surface backed by a tcell screen.
type Surface struct {
	screen  tcell.Screen
	cellW   int
	cellH   int
	palette platform.Palette

	root   platform.Drawable
	events chan platform.Event

	// buttons is only touched by the poll goroutine.
	buttons tcell.ButtonMask

	closeOnce sync.Once
}

var _ platform.Surface = (*Surface)(nil)

// Open initializes the controlling terminal and starts reading its input.
func Open(opts platform.OpenOptions) (platform.Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	return NewWithScreen(screen, opts), nil
}

// NewWithScreen wraps an initialized screen. The surface owns the screen
// from here on and finalizes it on Close.
func NewWithScreen(screen tcell.Screen, opts platform.OpenOptions) *Surface {
	s := &Surface{
		screen:  screen,
		cellW:   opts.CellWidth,
		cellH:   opts.CellHeight,
		palette: opts.Palette,
		events:  make(chan platform.Event, eventBuffer),
	}
	if s.cellW <= 0 {
		s.cellW = DefaultCellWidth
	}
	if s.cellH <= 0 {
		s.cellH = DefaultCellHeight
	}
	if s.palette == nil {
		s.palette = theme.NewPalette(theme.Default())
	}
	s.root = platform.NewRootNode("surface", s.Size)
	go s.poll()
	return s
}

func (s *Surface) Root() platform.Drawable { return s.root }

func (s *Surface) NewDrawable(class string) platform.Drawable {
	return platform.NewNode(class)
}

// Size returns the terminal size in surface units.
func (s *Surface) Size() (int, int) {
	cols, rows := s.screen.Size()
	return cols * s.cellW, rows * s.cellH
}

func (s *Surface) HitTest(x, y int) platform.Drawable {
	return platform.HitTest(s.root, x, y)
}

func (s *Surface) Events() <-chan platform.Event { return s.events }

// Close restores the terminal. The event channel closes once the poll
// goroutine notices.
func (s *Surface) Close() error {
	s.closeOnce.Do(s.screen.Fini)
	return nil
}

func (s *Surface) poll() {
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		if out, ok := s.translate(ev); ok {
			s.events <- out
		}
	}
}

// translate maps one terminal event to a surface event. Pointer coordinates
// land on the center of the cell.
func (s *Surface) translate(ev tcell.Event) (platform.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		col, row := ev.Position()
		x := col*s.cellW + s.cellW/2
		y := row*s.cellH + s.cellH/2

		held := ev.Buttons()&tcell.Button1 != 0
		was := s.buttons&tcell.Button1 != 0
		s.buttons = ev.Buttons()

		switch {
		case held && !was:
			return platform.Event{Kind: platform.EventPointerDown, X: x, Y: y}, true
		case !held && was:
			return platform.Event{Kind: platform.EventPointerUp, X: x, Y: y}, true
		default:
			return platform.Event{Kind: platform.EventPointerMove, X: x, Y: y}, true
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		return platform.Event{Kind: platform.EventResize, Width: cols * s.cellW, Height: rows * s.cellH}, true
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			return platform.Event{Kind: platform.EventClosed}, true
		}
	}
	return platform.Event{}, false
}

// Flush repaints the whole drawable tree.
func (s *Surface) Flush() error {
	s.screen.Clear()
	s.paint(s.root, 0, 0)
	s.screen.Show()
	return nil
}

func (s *Surface) paint(d platform.Drawable, originX, originY int) {
	r := d.Bounds()
	abs := platform.Rect{X: originX + r.X, Y: originY + r.Y, Width: r.Width, Height: r.Height}
	cells := s.cells(abs)
	visible := cells.Width > 0 && cells.Height > 0

	if visible && !subCell(d) {
		style := s.style(d)
		for y := cells.Y; y < cells.Y+cells.Height; y++ {
			for x := cells.X; x < cells.X+cells.Width; x++ {
				s.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		if text := d.Text(); text != "" {
			s.text(cells, text, style)
		}
	}

	for _, child := range d.Children() {
		s.paint(child, abs.X, abs.Y)
	}

	// The frame goes on top of the window's own children; its top row is
	// the title bar.
	if visible && d.HasClass(control.ClassWindowBody) {
		frame := s.style(d)
		for _, child := range d.Children() {
			if child.HasClass(control.ClassBorder) {
				frame = s.style(child)
				break
			}
		}
		s.frame(cells, frame)
	}
}

// subCell reports chrome that is thinner than a terminal cell.
func subCell(d platform.Drawable) bool {
	switch {
	case d.HasClass(control.ClassBorder), d.HasClass(control.ClassInnerBorder),
		d.HasClass(control.ClassCornerNW), d.HasClass(control.ClassCornerNE),
		d.HasClass(control.ClassCornerSW), d.HasClass(control.ClassCornerSE):
		return true
	}
	return false
}

func (s *Surface) style(d platform.Drawable) tcell.Style {
	bg, fg := s.palette.Colors(d)
	return tcell.StyleDefault.
		Background(tcell.NewHexColor(int32(bg))).
		Foreground(tcell.NewHexColor(int32(fg)))
}

// cells converts a surface rectangle to the terminal cells it covers.
func (s *Surface) cells(r platform.Rect) platform.Rect {
	x0, y0 := r.X/s.cellW, r.Y/s.cellH
	x1, y1 := (r.X+r.Width)/s.cellW, (r.Y+r.Height)/s.cellH
	return platform.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func (s *Surface) frame(c platform.Rect, style tcell.Style) {
	if c.Width < 2 || c.Height < 2 {
		return
	}
	right, bottom := c.X+c.Width-1, c.Y+c.Height-1
	for x := c.X + 1; x < right; x++ {
		s.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := c.Y + 1; y < bottom; y++ {
		s.screen.SetContent(c.X, y, tcell.RuneVLine, nil, style)
		s.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	s.screen.SetContent(c.X, bottom, tcell.RuneLLCorner, nil, style)
	s.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

// text writes a single line starting one cell in, clipped to the rectangle.
func (s *Surface) text(c platform.Rect, text string, style tcell.Style) {
	x := c.X + 1
	for _, r := range text {
		if x >= c.X+c.Width {
			return
		}
		s.screen.SetContent(x, c.Y, r, nil, style)
		x++
	}
}
