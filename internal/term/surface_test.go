package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/platform"
)

func newSimSurface(t *testing.T, cols, rows int) (*Surface, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	screen.SetSize(cols, rows)
	s := NewWithScreen(screen, platform.OpenOptions{})
	t.Cleanup(func() { _ = s.Close() })
	return s, screen
}

func background(t *testing.T, screen tcell.Screen, x, y int) tcell.Color {
	t.Helper()
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestSurface_SizeInVirtualPixels(t *testing.T) {
	s, _ := newSimSurface(t, 80, 40)
	w, h := s.Size()
	if w != 640 || h != 640 {
		t.Fatalf("expected 640x640, got %dx%d", w, h)
	}
	if r := s.Root().Bounds(); r.Width != 640 || r.Height != 640 {
		t.Fatalf("expected root bounds to follow the screen, got %+v", r)
	}
}

func TestSurface_FlushPaintsDesktopAndTitle(t *testing.T) {
	s, screen := newSimSurface(t, 80, 40)
	root := control.NewRoot(s)
	w, err := control.NewWindow(s, control.WindowOptions{
		Options: control.Options{Name: "hello", X: 80, Y: 32, Width: 350, Height: 250},
		Title:   "Hi",
	})
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := root.AddChild(w); err != nil {
		t.Fatalf("add window: %v", err)
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if bg := background(t, screen, 70, 30); bg != tcell.NewHexColor(0x008080) {
		t.Fatalf("expected desktop teal outside the window, got %v", bg)
	}
	// The title bar starts at 84,36 which is cell 10,2; text is one cell in.
	r, _, _, _ := screen.GetContent(11, 2)
	if r != 'H' {
		t.Fatalf("expected title text at 11,2, got %q", r)
	}
	if bg := background(t, screen, 11, 2); bg != tcell.NewHexColor(0x808080) {
		t.Fatalf("expected unfocused title color, got %v", bg)
	}

	w.Focus()
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if bg := background(t, screen, 11, 2); bg != tcell.NewHexColor(0x000080) {
		t.Fatalf("expected focused title color, got %v", bg)
	}
}

func TestSurface_FrameOnWindowEdges(t *testing.T) {
	s, screen := newSimSurface(t, 80, 40)
	root := control.NewRoot(s)
	w, err := control.NewWindow(s, control.WindowOptions{
		Options: control.Options{X: 80, Y: 32, Width: 352, Height: 256},
	})
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	if err := root.AddChild(w); err != nil {
		t.Fatalf("add window: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	// Cells 10..53 by 2..17.
	checks := []struct {
		x, y int
		want rune
	}{
		{10, 8, tcell.RuneVLine},
		{53, 8, tcell.RuneVLine},
		{20, 17, tcell.RuneHLine},
		{10, 17, tcell.RuneLLCorner},
		{53, 17, tcell.RuneLRCorner},
	}
	for _, c := range checks {
		if r, _, _, _ := screen.GetContent(c.x, c.y); r != c.want {
			t.Fatalf("cell %d,%d: expected %q, got %q", c.x, c.y, c.want, r)
		}
	}
}

func TestSurface_TranslateMouse(t *testing.T) {
	s, _ := newSimSurface(t, 80, 40)

	steps := []struct {
		buttons tcell.ButtonMask
		col     int
		row     int
		want    platform.EventKind
	}{
		{tcell.ButtonNone, 5, 5, platform.EventPointerMove},
		{tcell.Button1, 5, 5, platform.EventPointerDown},
		{tcell.Button1, 10, 6, platform.EventPointerMove},
		{tcell.ButtonNone, 10, 6, platform.EventPointerUp},
	}
	for i, step := range steps {
		ev, ok := s.translate(tcell.NewEventMouse(step.col, step.row, step.buttons, tcell.ModNone))
		if !ok {
			t.Fatalf("step %d: event dropped", i)
		}
		if ev.Kind != step.want {
			t.Fatalf("step %d: expected %s, got %s", i, step.want, ev.Kind)
		}
		if ev.X != step.col*8+4 || ev.Y != step.row*16+8 {
			t.Fatalf("step %d: expected cell center, got %d,%d", i, ev.X, ev.Y)
		}
	}
}

func TestSurface_TranslateResizeAndQuit(t *testing.T) {
	s, _ := newSimSurface(t, 80, 40)

	ev, ok := s.translate(tcell.NewEventResize(100, 30))
	if !ok || ev.Kind != platform.EventResize || ev.Width != 800 || ev.Height != 480 {
		t.Fatalf("unexpected resize translation: %+v %v", ev, ok)
	}

	ev, ok = s.translate(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !ok || ev.Kind != platform.EventClosed {
		t.Fatalf("expected q to close, got %+v %v", ev, ok)
	}

	if _, ok := s.translate(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ok {
		t.Fatalf("expected other keys to be ignored")
	}
}

func TestSurface_CloseEndsEvents(t *testing.T) {
	s, _ := newSimSurface(t, 20, 10)
	_ = s.Close()
	for range s.Events() {
	}
}
