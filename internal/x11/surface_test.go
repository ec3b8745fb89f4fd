package x11

import (
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/relic/internal/platform"
)

func TestFillRect(t *testing.T) {
	tests := []struct {
		name string
		in   platform.Rect
		want xproto.Rectangle
		ok   bool
	}{
		{name: "inside", in: platform.Rect{X: 10, Y: 20, Width: 30, Height: 40}, want: xproto.Rectangle{X: 10, Y: 20, Width: 30, Height: 40}, ok: true},
		{name: "empty", in: platform.Rect{X: 10, Y: 20}},
		{name: "clipped left", in: platform.Rect{X: -5, Y: 0, Width: 20, Height: 10}, want: xproto.Rectangle{X: 0, Y: 0, Width: 15, Height: 10}, ok: true},
		{name: "fully off", in: platform.Rect{X: -50, Y: -50, Width: 20, Height: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fillRect(tt.in)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestClipText(t *testing.T) {
	if got := clipText("Hello, World"); got != "Hello, World" {
		t.Fatalf("unexpected %q", got)
	}
	if got := clipText("a世b"); got != "a?b" {
		t.Fatalf("expected wide runes replaced, got %q", got)
	}
	if got := clipText(strings.Repeat("x", 300)); len(got) != maxTextLen {
		t.Fatalf("expected %d bytes, got %d", maxTextLen, len(got))
	}
}

func TestMonitorAtAndWindowSize(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "left", Width: 1920, Height: 1080},
		{ID: 1, Name: "right", X: 1920, Width: 1280, Height: 1024},
	}
	mon := monitorAt(monitors, 2000, 500)
	if mon == nil || mon.Name != "right" {
		t.Fatalf("expected right monitor, got %+v", mon)
	}
	if monitorAt(monitors, 5000, 0) != nil {
		t.Fatalf("expected no monitor outside the layout")
	}
	if w, h := windowSize(mon); w != 960 || h != 768 {
		t.Fatalf("expected 960x768, got %dx%d", w, h)
	}
}

func TestConfigured_OnlySizeChangesResize(t *testing.T) {
	s := &Surface{width: 800, height: 600}
	if _, ok := s.configured(800, 600); ok {
		t.Fatalf("expected a move to be ignored")
	}
	ev, ok := s.configured(640, 480)
	if !ok || ev.Kind != platform.EventResize || ev.Width != 640 || ev.Height != 480 {
		t.Fatalf("unexpected resize: %+v %v", ev, ok)
	}
	if w, h := s.Size(); w != 640 || h != 480 {
		t.Fatalf("expected size to follow, got %dx%d", w, h)
	}
}

func TestEmit_UnblocksWhenStopped(t *testing.T) {
	s := &Surface{events: make(chan platform.Event, 1), stop: make(chan struct{})}
	s.emit(platform.Event{Kind: platform.EventExpose})

	done := make(chan struct{})
	go func() {
		s.emit(platform.Event{Kind: platform.EventExpose})
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("expected emit to block on a full queue")
	case <-time.After(50 * time.Millisecond):
	}

	s.stopEmitting()
	s.stopEmitting()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expected emit released after stop")
	}
	if len(s.events) != 1 {
		t.Fatalf("expected the dropped event not queued, got %d", len(s.events))
	}
}

func TestOpen_UnreachableDisplay(t *testing.T) {
	s, err := Open(platform.OpenOptions{Display: ":4242"})
	if err == nil {
		_ = s.Close()
		t.Skip("a server answered on :4242")
	}
	if !strings.Contains(err.Error(), "X server") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestQuitKey(t *testing.T) {
	tests := []struct {
		name  string
		sym   xproto.Keysym
		state uint16
		want  bool
	}{
		{name: "escape", sym: keysymEscape, want: true},
		{name: "q", sym: keysymQ, want: true},
		{name: "shift q", sym: keysymQUpper, state: xproto.ModMaskShift, want: true},
		{name: "ctrl c", sym: keysymC, state: xproto.ModMaskControl, want: true},
		{name: "plain c", sym: keysymC},
		{name: "x", sym: 0x0078},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quitKey(tt.sym, tt.state); got != tt.want {
				t.Fatalf("quitKey(%#x, %#x) = %v, want %v", tt.sym, tt.state, got, tt.want)
			}
		})
	}
}
