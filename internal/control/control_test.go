package control

import (
	"errors"
	"testing"

	"github.com/1broseidon/relic/internal/platform"
)

func TestNew_AppliesDefaults(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := New(s, Options{Name: "leaf"})

	if c.Width() != DefaultWidth || c.Height() != DefaultHeight {
		t.Fatalf("expected %dx%d, got %dx%d", DefaultWidth, DefaultHeight, c.Width(), c.Height())
	}
	if c.X() != 0 || c.Y() != 0 {
		t.Fatalf("expected origin 0,0, got %d,%d", c.X(), c.Y())
	}
	if c.FontSize() != DefaultFontSize {
		t.Fatalf("expected font size %d, got %d", DefaultFontSize, c.FontSize())
	}
	if c.ID() == "" {
		t.Fatalf("expected generated ID")
	}
	if c.Kind() != KindControl {
		t.Fatalf("expected control kind, got %s", c.Kind())
	}
}

func TestSetters_RepublishPlacement(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := New(s, Options{X: 1, Y: 2, Width: 30, Height: 40})

	c.SetX(10)
	c.SetY(20)
	c.SetWidth(300)
	c.SetHeight(400)

	want := platform.Rect{X: 10, Y: 20, Width: 300, Height: 400}
	if got := c.Body().Bounds(); got != want {
		t.Fatalf("expected body %+v, got %+v", want, got)
	}
	if got := c.Rect(); got != want {
		t.Fatalf("expected rect %+v, got %+v", want, got)
	}
}

func TestSetters_AcceptOutOfRangeValues(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := New(s, Options{})

	c.SetX(-50)
	c.SetWidth(-1)
	if got := c.Body().Bounds(); got.X != -50 || got.Width != -1 {
		t.Fatalf("expected unvalidated -50/-1, got %+v", got)
	}
}

func TestStyleAndGeometryIndependence(t *testing.T) {
	s := platform.NewMemory(800, 600)
	root := NewRoot(s)
	w, err := NewWindow(s, WindowOptions{Options: Options{X: 5, Y: 6, Width: 200, Height: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := root.AddChild(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := w.Body().Bounds()
	w.SetBackgroundColor("#336699")
	if got := w.Body().Bounds(); got != before {
		t.Fatalf("background change moved body: %+v -> %+v", before, got)
	}
	if w.Rect() != (platform.Rect{X: 5, Y: 6, Width: 200, Height: 100}) {
		t.Fatalf("background change altered geometry: %+v", w.Rect())
	}

	w.SetWidth(250)
	if got := w.Content().Style().Background; got != "#336699" {
		t.Fatalf("width change altered background: %q", got)
	}
}

func TestUpdateStyle_TargetsContentRegion(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := NewContainer(s, Options{BackgroundColor: "#000080", ForegroundColor: "#ffffff"})
	c.UpdateStyle()

	if got := c.Content().Style().Background; got != "#000080" {
		t.Fatalf("expected content background #000080, got %q", got)
	}
	if got := c.Body().Style().Background; got != "" {
		t.Fatalf("expected body untouched, got %q", got)
	}
}

func TestContentRegionDerivation(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := NewContainer(s, Options{Width: 400, Height: 300})
	c.SetInsets(Insets{Top: 23, Left: 4, Right: 4, Bottom: 4})

	want := platform.Rect{X: 4, Y: 23, Width: 392, Height: 273}
	if got := c.ContentRegion(); got != want {
		t.Fatalf("expected content region %+v, got %+v", want, got)
	}
	if got := c.Content().Bounds(); got.Width != 392 || got.Height != 273 {
		t.Fatalf("expected content 392x273, got %dx%d", got.Width, got.Height)
	}
}

func TestAddChild_PlacesWithoutFurtherCalls(t *testing.T) {
	s := platform.NewMemory(800, 600)
	root := NewRoot(s)
	w, err := NewWindow(s, WindowOptions{Options: Options{Width: 400, Height: 300}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := root.AddChild(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	child := New(s, Options{Width: 100, Height: 50})
	if err := w.AddChild(child); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := child.Body().Bounds(); got != (platform.Rect{Width: 100, Height: 50}) {
		t.Fatalf("expected child bounds 0,0 100x50, got %+v", got)
	}
	if got := platform.Origin(child.Body()); got != (platform.Point{X: 4, Y: 23}) {
		t.Fatalf("expected child origin 4,23, got %+v", got)
	}
	if child.Parent() != w {
		t.Fatalf("expected parent to be set")
	}
}

func TestUpdateSize_Idempotent(t *testing.T) {
	s := platform.NewMemory(800, 600)
	root := NewRoot(s)
	outer, _ := NewWindow(s, WindowOptions{Options: Options{X: 10, Y: 10, Width: 400, Height: 300}})
	inner := NewContainer(s, Options{X: 5, Y: 5, Width: 200, Height: 100})
	leaf := New(s, Options{X: 1, Y: 2, Width: 10, Height: 10})
	if err := root.AddChild(outer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := outer.AddChild(inner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inner.AddChild(leaf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot := func() []platform.Rect {
		var out []platform.Rect
		var walk func(d platform.Drawable)
		walk = func(d platform.Drawable) {
			out = append(out, d.Bounds())
			for _, k := range d.Children() {
				walk(k)
			}
		}
		walk(root.Body())
		return out
	}

	root.UpdateSize()
	first := snapshot()
	root.UpdateSize()
	second := snapshot()

	if len(first) != len(second) {
		t.Fatalf("drawable count changed: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("rect %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestUpdateSize_CascadesThroughNesting(t *testing.T) {
	s := platform.NewMemory(800, 600)
	root := NewRoot(s)
	outer := NewContainer(s, Options{Width: 300, Height: 300})
	inner := NewContainer(s, Options{X: 10, Y: 10, Width: 100, Height: 100})
	if err := root.AddChild(outer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := outer.AddChild(inner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inner.SetInsets(Insets{Top: 5, Left: 5})
	outer.SetWidth(320)

	if got := inner.ContentRegion(); got != (platform.Rect{X: 5, Y: 5, Width: 95, Height: 95}) {
		t.Fatalf("expected inner content region to survive outer layout, got %+v", got)
	}
	if got := outer.Body().Bounds().Width; got != 320 {
		t.Fatalf("expected outer width 320, got %d", got)
	}
}

func TestRoot_TracksSurfaceAndIgnoresSelfPlacement(t *testing.T) {
	s := platform.NewMemory(640, 480)
	root := NewRoot(s)

	root.SetWidth(10)
	if got := root.Body().Bounds(); got.Width != 640 || got.Height != 480 {
		t.Fatalf("expected root to keep surface size, got %+v", got)
	}

	s.SetSize(800, 600)
	root.UpdateSize()
	if got := root.ContentRegion(); got != (platform.Rect{Width: 800, Height: 600}) {
		t.Fatalf("expected content region to follow surface, got %+v", got)
	}
	if !root.Body().HasClass(ClassDesktop) {
		t.Fatalf("expected desktop class on root body")
	}
}

func TestRemoveChild_RemovesMostRecentMatchOnly(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := NewContainer(s, Options{Width: 100, Height: 100})
	first := New(s, Options{Name: "x"})
	second := New(s, Options{Name: "x"})
	if err := c.AddChild(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddChild(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed, err := c.RemoveChild("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != second {
		t.Fatalf("expected most recently added child to be removed")
	}
	children := c.Children()
	if len(children) != 1 || children[0] != first {
		t.Fatalf("expected first child to remain, got %d children", len(children))
	}
	if second.Parent() != nil || second.Body().Parent() != nil {
		t.Fatalf("expected removed child to be detached")
	}
	if first.Body().Parent() != c.Content() {
		t.Fatalf("expected remaining child still attached to content")
	}
}

func TestRemoveChild_NameRequiredAndUnmatched(t *testing.T) {
	s := platform.NewMemory(800, 600)
	c := NewContainer(s, Options{})
	if err := c.AddChild(New(s, Options{Name: "a"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.RemoveChild(""); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	removed, err := c.RemoveChild("missing")
	if err != nil || removed != nil {
		t.Fatalf("expected silent no-op, got %v, %v", removed, err)
	}
	if len(c.Children()) != 1 {
		t.Fatalf("expected child list untouched")
	}
}

func TestAddChild_Rejects(t *testing.T) {
	s := platform.NewMemory(800, 600)
	root := NewRoot(s)
	a := NewContainer(s, Options{})
	b := NewContainer(s, Options{})
	leaf := New(s, Options{})

	tests := []struct {
		name   string
		parent *Control
		child  *Control
		want   error
	}{
		{name: "leaf parent", parent: leaf, child: New(s, Options{}), want: ErrNotContainer},
		{name: "nil child", parent: a, child: nil, want: ErrNilControl},
		{name: "root child", parent: a, child: root, want: ErrAlreadyParented},
		{name: "self", parent: a, child: a, want: ErrCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.parent.AddChild(tt.child); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := a.AddChild(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.AddChild(a); !errors.Is(err, ErrAlreadyParented) && !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle to be rejected, got %v", err)
	}
	if err := root.AddChild(b); !errors.Is(err, ErrAlreadyParented) {
		t.Fatalf("expected ErrAlreadyParented, got %v", err)
	}
}

func TestFindAndWalk(t *testing.T) {
	s := platform.NewMemory(800, 600)
	root := NewRoot(s)
	w, _ := NewWindow(s, WindowOptions{Options: Options{Name: "w"}})
	leaf := New(s, Options{Name: "leaf"})
	if err := root.AddChild(w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.AddChild(leaf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if root.Find(leaf.ID()) != leaf {
		t.Fatalf("expected to find leaf by ID")
	}
	if root.Find("nope") != nil {
		t.Fatalf("expected nil for unknown ID")
	}

	var names []string
	root.Walk(func(c *Control) bool {
		names = append(names, c.Name())
		return true
	})
	if len(names) != 3 || names[1] != "w" || names[2] != "leaf" {
		t.Fatalf("unexpected walk order: %v", names)
	}
}
