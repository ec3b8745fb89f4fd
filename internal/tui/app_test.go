package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/ipc"
)

type fakeDesktop struct {
	running bool
	reloads int
}

func (f *fakeDesktop) GetStatus() (*ipc.StatusData, error) {
	if !f.running {
		return nil, errors.New("not running")
	}
	return &ipc.StatusData{Surface: "x11", WindowCount: 1}, nil
}

func (f *fakeDesktop) Reload() (int, error) {
	f.reloads++
	return 2, nil
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm, cmd
}

func TestModel_SaveWritesAndReloadsRunningDesktop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	desk := &fakeDesktop{running: true}
	m, err := newModel(path, desk)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	if m.status == nil || m.status.Surface != "x11" {
		t.Fatalf("expected running desktop status, got %+v", m.status)
	}

	m.cfg.GapSize = 12
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.save.Active() || len(m.save.lines) == 0 {
		t.Fatalf("expected save preview with a diff")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.save.Succeeded() {
		t.Fatalf("expected save to succeed, err=%v", m.save.err)
	}
	if desk.reloads != 1 || m.save.reloaded != 2 {
		t.Fatalf("expected one reload reporting 2 windows, got %d/%d", desk.reloads, m.save.reloaded)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if res.Config.GapSize != 12 {
		t.Fatalf("expected gap 12 on disk, got %d", res.Config.GapSize)
	}

	// Any key dismisses the result; a second save has nothing to write.
	m, _ = update(t, m, keyRune('x'))
	if m.save.Active() {
		t.Fatalf("expected overlay dismissed")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.save.err == nil || !strings.Contains(m.save.err.Error(), "no changes") {
		t.Fatalf("expected no-changes result, got %v", m.save.err)
	}
}

func TestModel_SaveWithoutDesktopSkipsReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	desk := &fakeDesktop{}
	m, err := newModel(path, desk)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.cfg.Surface = config.SurfaceHeadless
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, keyRune('y'))
	if !m.save.Succeeded() || desk.reloads != 0 || m.save.reloaded != -1 {
		t.Fatalf("expected save without reload, err=%v reloads=%d", m.save.err, desk.reloads)
	}
}

func TestModel_SaveRejectsInvalidConfig(t *testing.T) {
	m, err := newModel(filepath.Join(t.TempDir(), "config.yaml"), nil)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.cfg.Surface = "wayland"
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.save.err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestModel_TabsAndQuit(t *testing.T) {
	m, err := newModel(filepath.Join(t.TempDir(), "config.yaml"), nil)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.general.width != 100 || m.windows.height != 26 {
		t.Fatalf("expected sizes forwarded, got %d/%d", m.general.width, m.windows.height)
	}

	m, _ = update(t, m, keyRune('2'))
	if m.activeTab != TabWindows {
		t.Fatalf("expected windows tab, got %v", m.activeTab)
	}
	if !strings.Contains(m.View(), "hello") {
		t.Fatalf("expected the default window listed:\n%s", m.View())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != TabGeneral {
		t.Fatalf("expected tab to wrap to general, got %v", m.activeTab)
	}

	_, cmd := update(t, m, keyRune('q'))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestNewModel_RefusesInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := config.DefaultConfig()
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "surface: wayland\n")
	if _, err := newModel(bad, nil); err == nil {
		t.Fatal("expected invalid config to be refused")
	}
	if _, err := newModel(path, nil); err != nil {
		t.Fatalf("expected valid config to load: %v", err)
	}
}
