package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/relic/internal/ipc"
)

// Tab identifies an editor tab.
type Tab int

const (
	TabGeneral Tab = iota
	TabWindows
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabGeneral:
		return "General"
	case TabWindows:
		return "Windows"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("30")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Width(20).
			Align(lipgloss.Right).
			PaddingRight(2)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)

func renderTabBar(active Tab, width int) string {
	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%d:%s", int(t)+1, t)
		if t == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, " "))
	return lipgloss.NewStyle().Width(width).MarginBottom(1).Render(row)
}

// renderStatusBar shows the edited file and whether a desktop is running.
func renderStatusBar(path string, status *ipc.StatusData, width int) string {
	var dot, state string
	if status != nil {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		state = fmt.Sprintf("desktop running (%s, %d windows)", status.Surface, status.WindowCount)
	} else {
		dot = dimStyle.Render("●")
		state = "no desktop running"
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1).
		Render(dot + " " + state + "  " + path)
}

func renderHelpBar(width int) string {
	return dimStyle.Width(width).Padding(0, 1).
		Render("tab: switch tabs  1-2: jump  ctrl-s: save  q/ctrl-c: quit")
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
