package palette

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/1broseidon/relic/internal/desktop"
)

type recordedRun struct {
	name  string
	args  []string
	stdin string
}

func fakeLauncher(k launcherKind, out string, err error) (*launcher, *recordedRun) {
	rec := &recordedRun{}
	return &launcher{kind: k, run: func(name string, args []string, stdin string) (string, error) {
		rec.name, rec.args, rec.stdin = name, args, stdin
		return out, err
	}}, rec
}

var sampleItems = []Item{
	{Label: "Arrange", IsHeader: true},
	{Label: "Arrange grid", Action: Action{Kind: ActionArrange, Arg: "grid"}},
	{Label: "Focus <main>", Action: Action{Kind: ActionFocus, Arg: "w1"}, IsActive: true},
}

func TestLauncher_RofiUsesIndexAndMarkup(t *testing.T) {
	l, rec := fakeLauncher(kindRofi, "2\n", nil)
	got, err := l.Show("relic", sampleItems)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got.Action.Arg != "w1" {
		t.Fatalf("expected focus row, got %+v", got)
	}
	if rec.name != "rofi" || !strings.Contains(strings.Join(rec.args, " "), "-format i") {
		t.Fatalf("unexpected invocation %s %v", rec.name, rec.args)
	}
	if !strings.Contains(strings.Join(rec.args, " "), "-a 2") {
		t.Fatalf("expected active row flagged, got %v", rec.args)
	}
	rows := strings.Split(rec.stdin, "\n")
	if rows[0] != "<b>Arrange</b>\x00nonselectable\x1ftrue" || rows[2] != "Focus &lt;main&gt;" {
		t.Fatalf("unexpected rows %q", rows)
	}
}

func TestLauncher_DmenuMatchesLabel(t *testing.T) {
	l, rec := fakeLauncher(kindDmenu, "Arrange grid\n", nil)
	got, err := l.Show("relic", sampleItems)
	if err != nil {
		t.Fatalf("Show: %v", err)
	}
	if got.Action != (Action{Kind: ActionArrange, Arg: "grid"}) {
		t.Fatalf("unexpected selection %+v", got)
	}
	if strings.Join(rec.args, " ") != "-i -p relic" {
		t.Fatalf("unexpected args %v", rec.args)
	}
	if strings.Contains(rec.stdin, "<b>") {
		t.Fatalf("dmenu rows should be plain, got %q", rec.stdin)
	}

	l, _ = fakeLauncher(kindDmenu, "something else", nil)
	if _, err := l.Show("relic", sampleItems); err == nil {
		t.Fatal("expected unknown entry error")
	}
}

func TestLauncher_Cancel(t *testing.T) {
	tests := []struct {
		name string
		kind launcherKind
		out  string
		err  error
	}{
		{"empty output", kindWofi, "", nil},
		{"header picked", kindFuzzel, "0", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := fakeLauncher(tt.kind, tt.out, tt.err)
			if _, err := l.Show("relic", sampleItems); !errors.Is(err, ErrCancelled) {
				t.Fatalf("expected ErrCancelled, got %v", err)
			}
		})
	}

	l, _ := fakeLauncher(kindRofi, "", errors.New("boom"))
	if _, err := l.Show("relic", sampleItems); err == nil || errors.Is(err, ErrCancelled) {
		t.Fatalf("expected launcher failure, got %v", err)
	}
	if _, err := l.Show("relic", nil); err == nil {
		t.Fatal("expected error for empty menu")
	}
}

func TestLauncher_ExitStatusOneIsCancel(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	exitErr := exec.Command("false").Run()
	l, _ := fakeLauncher(kindDmenu, "", exitErr)
	if _, err := l.Show("relic", sampleItems); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	if _, err := NewBackend("zenity"); err == nil || !strings.Contains(err.Error(), "unknown palette backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestItems(t *testing.T) {
	snap := desktop.Snapshot{Root: desktop.Node{Kind: "container", Children: []desktop.Node{
		{ID: "w1", Name: "hello", Kind: "window", Title: "Hello, World", Focused: true},
		{ID: "c1", Kind: "container"},
		{ID: "w2", Kind: "window"},
	}}}
	items := Items(snap)

	var labels []string
	for _, it := range items {
		labels = append(labels, it.Label)
	}
	joined := strings.Join(labels, "|")
	for _, want := range []string{"Focus hello (Hello, World)", "Focus w2", "Arrange grid", "Reload config"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %q", want, joined)
		}
	}
	if strings.Contains(joined, "c1") {
		t.Fatalf("containers should not be focusable: %q", joined)
	}
	if !items[1].IsActive || items[1].Action.Arg != "w1" {
		t.Fatalf("expected focused window marked active, got %+v", items[1])
	}

	if got := Items(desktop.Snapshot{}); got[0].Label != "Arrange" {
		t.Fatalf("expected menu to start with arrange when there are no windows, got %q", got[0].Label)
	}
}

type fakeExecutor struct {
	calls []string
}

func (f *fakeExecutor) Arrange(mode string) error {
	f.calls = append(f.calls, "arrange "+mode)
	return nil
}

func (f *fakeExecutor) Focus(ref string) error {
	f.calls = append(f.calls, "focus "+ref)
	return nil
}

func (f *fakeExecutor) Reload() (int, error) {
	f.calls = append(f.calls, "reload")
	return 3, nil
}

func TestRun(t *testing.T) {
	ex := &fakeExecutor{}
	tests := []struct {
		action Action
		want   string
	}{
		{Action{Kind: ActionArrange, Arg: "grid"}, "arranged: grid"},
		{Action{Kind: ActionFocus, Arg: "w1"}, "focused: w1"},
		{Action{Kind: ActionReload}, "reloaded: 3 windows"},
	}
	for _, tt := range tests {
		got, err := Run(tt.action, ex)
		if err != nil {
			t.Fatalf("Run(%s): %v", tt.action, err)
		}
		if got != tt.want {
			t.Fatalf("Run(%s) = %q, want %q", tt.action, got, tt.want)
		}
	}
	if strings.Join(ex.calls, ",") != "arrange grid,focus w1,reload" {
		t.Fatalf("unexpected calls %v", ex.calls)
	}
	if _, err := Run(Action{Kind: "explode"}, ex); err == nil {
		t.Fatal("expected unknown action error")
	}
}
