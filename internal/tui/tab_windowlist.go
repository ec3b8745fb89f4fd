package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/control"
)

// WindowsTab lists the top-level windows of the scene and edits one at a
// time. Nested children are kept as they are.
type WindowsTab struct {
	cfg    *config.Config
	cursor int

	width  int
	height int

	editing bool
	adding  bool
	form    *huh.Form

	fName       string
	fTitle      string
	fX, fY      string
	fWidth      string
	fHeight     string
	fStyle      string
	fBackground string
}

func NewWindowsTab(cfg *config.Config) WindowsTab {
	return WindowsTab{cfg: cfg}
}

func (w WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if w.editing {
		return w.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if w.cursor > 0 {
				w.cursor--
			}
		case "down", "j":
			if w.cursor < len(w.cfg.Windows)-1 {
				w.cursor++
			}
		case "e", "enter":
			if len(w.cfg.Windows) > 0 {
				w.startEditing(w.cfg.Windows[w.cursor], false)
				return w, w.form.Init()
			}
		case "a":
			w.startEditing(newWindowSpec(len(w.cfg.Windows)), true)
			return w, w.form.Init()
		case "d", "delete":
			w.deleteSelected()
		}
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	}
	return w, nil
}

func (w WindowsTab) updateEditing(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			w.stopEditing()
			return w, nil
		}
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}
	switch w.form.State {
	case huh.StateCompleted:
		w.applyForm()
		w.stopEditing()
		return w, nil
	case huh.StateAborted:
		w.stopEditing()
		return w, nil
	}
	return w, cmd
}

func (w *WindowsTab) stopEditing() {
	w.editing, w.adding, w.form = false, false, nil
}

// newWindowSpec returns the window added by 'a', offset so consecutive new
// windows do not stack exactly.
func newWindowSpec(n int) config.ControlSpec {
	return config.ControlSpec{
		Kind:   config.KindWindow,
		Name:   fmt.Sprintf("window%d", n+1),
		Title:  "Untitled",
		X:      40 + 23*n,
		Y:      40 + 23*n,
		Width:  320,
		Height: 240,
	}
}

func (w *WindowsTab) loadForm(spec config.ControlSpec) {
	w.fName = spec.Name
	w.fTitle = spec.Title
	w.fX = strconv.Itoa(spec.X)
	w.fY = strconv.Itoa(spec.Y)
	w.fWidth = sizeString(spec.Width)
	w.fHeight = sizeString(spec.Height)
	w.fStyle = spec.WindowStyle
	if w.fStyle == "" {
		w.fStyle = string(control.BorderSizable)
	}
	w.fBackground = spec.Background
}

func sizeString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (w *WindowsTab) startEditing(spec config.ControlSpec, adding bool) {
	w.loadForm(spec)
	w.adding = adding

	styles := []string{
		string(control.BorderSizable),
		string(control.BorderFixed),
		string(control.BorderDialog),
		string(control.BorderTool),
		string(control.BorderNone),
	}

	w.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Name").
				Description("Used by remove and lookups").
				Value(&w.fName),
			huh.NewInput().Key("title").Title("Title").Value(&w.fTitle),
			huh.NewSelect[string]().Key("window_style").Title("Window Style").
				Options(huh.NewOptions(styles...)...).
				Value(&w.fStyle),
			huh.NewInput().Key("background").Title("Background").
				Description("Empty uses the theme").
				Validate(validateColor).
				Value(&w.fBackground),
		),
		huh.NewGroup(
			huh.NewInput().Key("x").Title("X").Validate(validateInt).Value(&w.fX),
			huh.NewInput().Key("y").Title("Y").Validate(validateInt).Value(&w.fY),
			huh.NewInput().Key("width").Title("Width").
				Description("Empty follows the content").
				Validate(validateOptionalSize).Value(&w.fWidth),
			huh.NewInput().Key("height").Title("Height").
				Validate(validateOptionalSize).Value(&w.fHeight),
		),
	).WithWidth(max(w.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	w.editing = true
}

// applyForm writes the form into the selected window, or appends a new one.
func (w *WindowsTab) applyForm() {
	var spec config.ControlSpec
	if w.adding {
		spec = config.ControlSpec{Kind: config.KindWindow}
	} else {
		spec = w.cfg.Windows[w.cursor]
	}

	spec.Name = strings.TrimSpace(w.fName)
	spec.Title = w.fTitle
	spec.Background = strings.TrimSpace(w.fBackground)
	spec.WindowStyle = w.fStyle
	if spec.WindowStyle == string(control.BorderSizable) {
		spec.WindowStyle = ""
	}
	spec.X = atoiOr(w.fX, spec.X)
	spec.Y = atoiOr(w.fY, spec.Y)
	spec.Width = atoiOr(w.fWidth, 0)
	spec.Height = atoiOr(w.fHeight, 0)

	if w.adding {
		w.cfg.Windows = append(w.cfg.Windows, spec)
		w.cursor = len(w.cfg.Windows) - 1
		return
	}
	w.cfg.Windows[w.cursor] = spec
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

func (w *WindowsTab) deleteSelected() {
	if len(w.cfg.Windows) == 0 {
		return
	}
	w.cfg.Windows = append(w.cfg.Windows[:w.cursor], w.cfg.Windows[w.cursor+1:]...)
	if w.cursor >= len(w.cfg.Windows) && w.cursor > 0 {
		w.cursor--
	}
}

func (w WindowsTab) View() string {
	if w.editing && w.form != nil {
		action := "Editing Window"
		if w.adding {
			action = "New Window"
		}
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("30")).Bold(true).Render(action) +
			dimStyle.Render("  (esc to cancel)")
		return lipgloss.NewStyle().Width(w.width).Height(w.height).Padding(1, 2).
			Render(header + "\n\n" + w.form.View())
	}

	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("30")).Bold(true)
	var lines []string
	if len(w.cfg.Windows) == 0 {
		lines = append(lines, dimStyle.Render("No windows configured."))
	}
	for i, spec := range w.cfg.Windows {
		line := windowLine(spec)
		if i == w.cursor {
			line = selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", dimStyle.Render("  j/k: select  e: edit  a: add  d: delete"))
	return lipgloss.NewStyle().Width(w.width).Height(w.height).Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func windowLine(spec config.ControlSpec) string {
	name := orDefault(spec.Name, "(unnamed)")
	size := fmt.Sprintf("%sx%s", orDefault(sizeString(spec.Width), "auto"), orDefault(sizeString(spec.Height), "auto"))
	line := fmt.Sprintf("%-16s %d,%d %s", name, spec.X, spec.Y, size)
	if spec.Title != "" {
		line += fmt.Sprintf(" %q", spec.Title)
	}
	if spec.WindowStyle != "" {
		line += " style=" + spec.WindowStyle
	}
	if n := len(spec.Children); n > 0 {
		line += fmt.Sprintf(" +%d children", n)
	}
	return line
}
