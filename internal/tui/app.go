package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/ipc"
)

// desktopClient reaches a running desktop over its control socket.
type desktopClient interface {
	GetStatus() (*ipc.StatusData, error)
	Reload() (int, error)
}

// model is the root bubbletea model of the editor.
type model struct {
	path     string
	cfg      *config.Config
	original *config.Config

	client desktopClient
	status *ipc.StatusData

	activeTab Tab
	general   GeneralTab
	windows   WindowsTab
	save      SaveOverlay

	width  int
	height int
}

// newModel loads path; a missing file starts from the defaults. Files that
// fail validation are refused so they are fixed by hand first.
func newModel(path string, client desktopClient) (model, error) {
	res, err := config.LoadFromPath(path)
	if err != nil {
		return model{}, err
	}
	m := model{
		path:     path,
		cfg:      res.Config,
		original: cloneConfig(res.Config),
		client:   client,
		general:  NewGeneralTab(res.Config),
		windows:  NewWindowsTab(res.Config),
	}
	m.refreshStatus()
	return m, nil
}

func (m *model) refreshStatus() {
	m.status = nil
	if m.client == nil {
		return
	}
	if st, err := m.client.GetStatus(); err == nil {
		m.status = st
	}
}

// reloadTarget returns the running desktop, if any, for the save flow.
func (m model) reloadTarget() reloader {
	if m.status == nil || m.client == nil {
		return nil
	}
	return m.client
}

func (m model) contentHeight() int {
	return max(m.height-4, 1)
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
		m.general, _ = m.general.Update(sub)
		m.windows, _ = m.windows.Update(sub)
		return m, nil
	}

	if m.save.Active() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.save = m.save.Update(msg, m.cfg, m.path, m.reloadTarget())
		if m.save.Succeeded() {
			m.original = cloneConfig(m.cfg)
			m.refreshStatus()
		}
		return m, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		m.save.Show(m.original, m.cfg)
		return m, nil
	}

	// An open form takes every key except ctrl+c.
	if m.general.editing || m.windows.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.delegate(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabGeneral
			return m, nil
		case "2":
			m.activeTab = TabWindows
			return m, nil
		}
	}
	return m.delegate(msg)
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabGeneral:
		m.general, cmd = m.general.Update(msg)
	case TabWindows:
		m.windows, cmd = m.windows.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	status := renderStatusBar(m.path, m.status, m.width)
	tabs := renderTabBar(m.activeTab, m.width)
	help := renderHelpBar(m.width)
	h := max(m.height-lipgloss.Height(status)-lipgloss.Height(tabs)-lipgloss.Height(help), 1)

	var content string
	switch {
	case m.save.Active():
		content = m.save.View(m.width, h)
	case m.activeTab == TabWindows:
		content = m.windows.View()
	default:
		content = m.general.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, tabs, content, help)
}
