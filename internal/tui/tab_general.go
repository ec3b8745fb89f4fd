package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/theme"
	"github.com/1broseidon/relic/internal/tiling"
)

// GeneralTab edits surface, arrangement, logging and theme settings.
type GeneralTab struct {
	cfg *config.Config

	width  int
	height int

	editing bool
	form    *huh.Form

	// Form-bound values, converted on submit.
	fSurface      string
	fArrange      string
	fGapSize      string
	fLogLevel     string
	fDesktop      string
	fTitleFocused string
}

func NewGeneralTab(cfg *config.Config) GeneralTab {
	return GeneralTab{cfg: cfg}
}

func (g GeneralTab) Update(msg tea.Msg) (GeneralTab, tea.Cmd) {
	if g.editing {
		return g.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			g.startEditing()
			return g, g.form.Init()
		}
	case tea.WindowSizeMsg:
		g.width, g.height = msg.Width, msg.Height
	}
	return g, nil
}

func (g GeneralTab) updateEditing(msg tea.Msg) (GeneralTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			g.editing, g.form = false, nil
			return g, nil
		}
	case tea.WindowSizeMsg:
		g.width, g.height = msg.Width, msg.Height
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}
	switch g.form.State {
	case huh.StateCompleted:
		g.applyForm()
		g.editing, g.form = false, nil
		return g, nil
	case huh.StateAborted:
		g.editing, g.form = false, nil
		return g, nil
	}
	return g, cmd
}

func (g *GeneralTab) loadForm() {
	cfg := g.cfg
	g.fSurface = cfg.Surface
	g.fArrange = cfg.Arrange
	g.fGapSize = strconv.Itoa(cfg.GapSize)
	g.fLogLevel = cfg.Logging.Level
	g.fDesktop = cfg.Theme.Desktop
	g.fTitleFocused = cfg.Theme.TitleFocused
}

func (g *GeneralTab) startEditing() {
	g.loadForm()

	arrangeOpts := []huh.Option[string]{huh.NewOption("(keep positions)", "")}
	for _, m := range tiling.Modes() {
		arrangeOpts = append(arrangeOpts, huh.NewOption(string(m), string(m)))
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("surface").
				Title("Surface").
				Description("Where the desktop is drawn").
				Options(huh.NewOptions(config.SurfaceTerm, config.SurfaceX11, config.SurfaceHeadless)...).
				Value(&g.fSurface),
			huh.NewSelect[string]().
				Key("arrange").
				Title("Arrange").
				Description("Applied once after the windows are built").
				Options(arrangeOpts...).
				Value(&g.fArrange),
			huh.NewInput().
				Key("gap_size").
				Title("Gap Size").
				Description("Space between arranged windows").
				Validate(validateNonNegative).
				Value(&g.fGapSize),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&g.fLogLevel),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("desktop").
				Title("Desktop Color").
				Description("#rrggbb, #rgb or a basic color name").
				Validate(validateColor).
				Value(&g.fDesktop),
			huh.NewInput().
				Key("title_focused").
				Title("Focused Title Color").
				Validate(validateColor).
				Value(&g.fTitleFocused),
		),
	).WithWidth(max(g.width-4, 40)).WithShowHelp(true).WithShowErrors(true)

	g.editing = true
}

// applyForm copies the form values back. Validators already rejected bad
// input, so conversion failures leave the old value.
func (g *GeneralTab) applyForm() {
	cfg := g.cfg
	if g.fSurface != "" {
		cfg.Surface = g.fSurface
	}
	cfg.Arrange = g.fArrange
	if v, err := strconv.Atoi(strings.TrimSpace(g.fGapSize)); err == nil && v >= 0 {
		cfg.GapSize = v
	}
	if g.fLogLevel != "" {
		cfg.Logging.Level = g.fLogLevel
	}
	cfg.Theme.Desktop = strings.TrimSpace(g.fDesktop)
	cfg.Theme.TitleFocused = strings.TrimSpace(g.fTitleFocused)
}

func (g GeneralTab) View() string {
	if g.editing && g.form != nil {
		header := lipgloss.NewStyle().Foreground(lipgloss.Color("30")).Bold(true).Render("Editing General Settings") +
			dimStyle.Render("  (esc to cancel)")
		return lipgloss.NewStyle().Width(g.width).Height(g.height).Padding(1, 2).
			Render(header + "\n\n" + g.form.View())
	}

	cfg := g.cfg
	lines := []string{
		"",
		row("Surface", cfg.Surface),
		row("Arrange", orDefault(cfg.Arrange, "(keep positions)")),
		row("Gap Size", strconv.Itoa(cfg.GapSize)),
		row("Log Level", cfg.Logging.Level),
		"",
		row("Desktop Color", orDefault(cfg.Theme.Desktop, "(default)")),
		row("Focused Title", orDefault(cfg.Theme.TitleFocused, "(default)")),
		row("Windows", strconv.Itoa(len(cfg.Windows))),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}
	return lipgloss.NewStyle().Width(g.width).Height(g.height).Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

func validateNonNegative(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if v < 0 {
		return fmt.Errorf("must be >= 0")
	}
	return nil
}

func validateOptionalSize(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateNonNegative(s)
}

func validateInt(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be a whole number")
	}
	return nil
}

// validateColor accepts an empty value, meaning the theme default.
func validateColor(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := theme.Parse(s)
	return err
}
