package tui

import (
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/relic/internal/config"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWindowsTab_AddEditDelete(t *testing.T) {
	cfg := config.DefaultConfig()
	tab := NewWindowsTab(cfg)

	tab.startEditing(newWindowSpec(len(cfg.Windows)), true)
	tab.fName = "notes"
	tab.fTitle = "Notes"
	tab.fWidth = ""
	tab.applyForm()
	tab.stopEditing()
	if len(cfg.Windows) != 2 || tab.cursor != 1 {
		t.Fatalf("expected appended window selected, got %d windows cursor=%d", len(cfg.Windows), tab.cursor)
	}
	added := cfg.Windows[1]
	if added.Name != "notes" || added.X != 63 || added.Width != 0 || added.Height != 240 {
		t.Fatalf("unexpected added window %+v", added)
	}

	tab, _ = tab.Update(keyRune('k'))
	if tab.cursor != 0 {
		t.Fatalf("expected cursor up, got %d", tab.cursor)
	}
	tab.startEditing(cfg.Windows[0], false)
	tab.fStyle = "tool"
	tab.fX = "-5"
	tab.applyForm()
	tab.stopEditing()
	if w := cfg.Windows[0]; w.WindowStyle != "tool" || w.X != -5 || w.Title != "Hello, World" {
		t.Fatalf("unexpected edited window %+v", w)
	}

	tab.startEditing(cfg.Windows[0], false)
	tab.fStyle = "sizable"
	tab.applyForm()
	if cfg.Windows[0].WindowStyle != "" {
		t.Fatalf("expected sizable stored as the default, got %q", cfg.Windows[0].WindowStyle)
	}
	tab.stopEditing()

	tab, _ = tab.Update(keyRune('d'))
	if len(cfg.Windows) != 1 || cfg.Windows[0].Name != "notes" {
		t.Fatalf("expected first window deleted, got %+v", cfg.Windows)
	}
	tab, _ = tab.Update(keyRune('d'))
	tab, _ = tab.Update(keyRune('d'))
	if len(cfg.Windows) != 0 || tab.cursor != 0 {
		t.Fatalf("expected empty list, got %d cursor=%d", len(cfg.Windows), tab.cursor)
	}
}

func TestWindowsTab_EscCancelsEdit(t *testing.T) {
	cfg := config.DefaultConfig()
	tab := NewWindowsTab(cfg)
	tab, _ = tab.Update(keyRune('e'))
	if !tab.editing {
		t.Fatalf("expected edit form open")
	}
	tab.fTitle = "changed"
	tab, _ = tab.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if tab.editing || cfg.Windows[0].Title != "Hello, World" {
		t.Fatalf("expected edit discarded, title=%q", cfg.Windows[0].Title)
	}
}

func TestGeneralTab_ApplyForm(t *testing.T) {
	cfg := config.DefaultConfig()
	tab := NewGeneralTab(cfg)
	tab.startEditing()
	if tab.fGapSize != "8" || tab.fSurface != config.SurfaceTerm {
		t.Fatalf("expected form loaded from config, got gap=%q surface=%q", tab.fGapSize, tab.fSurface)
	}
	tab.fSurface = config.SurfaceX11
	tab.fArrange = "grid"
	tab.fGapSize = " 4 "
	tab.fDesktop = "navy"
	tab.applyForm()
	if cfg.Surface != config.SurfaceX11 || cfg.Arrange != "grid" || cfg.GapSize != 4 || cfg.Theme.Desktop != "navy" {
		t.Fatalf("unexpected config after apply: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected applied config to validate: %v", err)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		in      string
		wantErr bool
	}{
		{"gap ok", validateNonNegative, "8", false},
		{"gap negative", validateNonNegative, "-1", true},
		{"gap empty", validateNonNegative, "", true},
		{"size empty", validateOptionalSize, "", false},
		{"size text", validateOptionalSize, "wide", true},
		{"int negative", validateInt, "-20", false},
		{"color name", validateColor, "teal", false},
		{"color short hex", validateColor, "#abc", false},
		{"color empty", validateColor, "", false},
		{"color bad", validateColor, "#12", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(tt.in); (err != nil) != tt.wantErr {
				t.Fatalf("%q: err=%v, wantErr=%v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestConfigDiff(t *testing.T) {
	a := config.DefaultConfig()
	if got := configDiff(a, cloneConfig(a)); got != nil {
		t.Fatalf("expected no diff for equal configs, got %+v", got)
	}

	b := cloneConfig(a)
	b.GapSize = 12
	lines := configDiff(a, b)
	var removed, added bool
	for _, l := range lines {
		if l.kind == diffRemoved && l.text == "gap_size: 8" {
			removed = true
		}
		if l.kind == diffAdded && l.text == "gap_size: 12" {
			added = true
		}
	}
	if !removed || !added {
		t.Fatalf("expected gap_size change in diff, got %+v", lines)
	}
	if len(lines) > 7 {
		t.Fatalf("expected change trimmed to two lines of context, got %d lines", len(lines))
	}
}

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name    string
		a, b    []string
		context int
		want    []diffLine
	}{
		{
			name:    "replace and append",
			a:       []string{"a", "b", "c"},
			b:       []string{"a", "x", "c", "d"},
			context: 1,
			want: []diffLine{
				{diffSame, "a"},
				{diffRemoved, "b"},
				{diffAdded, "x"},
				{diffSame, "c"},
				{diffAdded, "d"},
			},
		},
		{
			name:    "distant changes split into hunks",
			a:       []string{"l0", "l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9"},
			b:       []string{"X", "l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "Y"},
			context: 1,
			want: []diffLine{
				{diffRemoved, "l0"},
				{diffAdded, "X"},
				{diffSame, "l1"},
				{diffSame, "..."},
				{diffSame, "l8"},
				{diffRemoved, "l9"},
				{diffAdded, "Y"},
			},
		},
		{
			name:    "repeated lines still match",
			a:       []string{"- name: a", "  children: []", "- name: b", "  children: []"},
			b:       []string{"- name: a", "  children: []", "- name: c", "  children: []"},
			context: 0,
			want: []diffLine{
				{diffRemoved, "- name: b"},
				{diffAdded, "- name: c"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diffLines(tt.a, tt.b, tt.context)
			if len(got) != len(tt.want) {
				t.Fatalf("diffLines = %+v, want %+v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("line %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
