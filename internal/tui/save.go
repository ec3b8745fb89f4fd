package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/relic/internal/config"
)

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

type diffKind int

const (
	diffSame diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// reloader is the part of the control socket client the save flow uses.
type reloader interface {
	Reload() (int, error)
}

// SaveOverlay previews pending changes as a YAML diff and writes them on
// confirmation. A running desktop is asked to reload afterwards.
type SaveOverlay struct {
	phase    savePhase
	lines    []diffLine
	scroll   int
	err      error
	reloaded int // windows after reload, -1 when no reload happened
}

func (s SaveOverlay) Active() bool { return s.phase != saveHidden }

// Show opens the preview, or reports that nothing changed.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err, s.scroll, s.reloaded = nil, 0, -1
	s.lines = configDiff(original, current)
	if len(s.lines) == 0 {
		s.phase = saveResult
		s.err = fmt.Errorf("no changes to save")
		return
	}
	s.phase = savePreview
}

func (s SaveOverlay) Succeeded() bool {
	return s.phase == saveResult && s.err == nil
}

func (s SaveOverlay) Update(msg tea.Msg, cfg *config.Config, path string, desk reloader) SaveOverlay {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s
	}
	switch s.phase {
	case savePreview:
		switch km.String() {
		case "esc", "n":
			s.phase = saveHidden
		case "enter", "y":
			s.err = cfg.SaveTo(path)
			if s.err == nil && desk != nil {
				if n, err := desk.Reload(); err == nil {
					s.reloaded = n
				}
			}
			s.phase = saveResult
		case "up", "k":
			s.scroll = max(s.scroll-1, 0)
		case "down", "j":
			s.scroll++
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("30")).
			Padding(1, 2)
)

func (s SaveOverlay) View(width, height int) string {
	var body string
	boxW := min(max(width-8, 30), 80)
	switch s.phase {
	case savePreview:
		visible := max(height-10, 3)
		off := min(s.scroll, max(len(s.lines)-visible, 0))
		end := min(off+visible, len(s.lines))
		textW := max(boxW-8, 10)

		out := make([]string, 0, end-off)
		for _, l := range s.lines[off:end] {
			t := l.text
			if len(t) > textW {
				t = t[:textW]
			}
			switch l.kind {
			case diffAdded:
				out = append(out, addedStyle.Render("+ "+t))
			case diffRemoved:
				out = append(out, removedStyle.Render("- "+t))
			default:
				out = append(out, sameStyle.Render("  "+t))
			}
		}
		body = valueStyle.Render("Save config: pending changes") + "\n\n" +
			strings.Join(out, "\n") + "\n\n" +
			dimStyle.Render("enter: save  esc: cancel  j/k: scroll")
	case saveResult:
		boxW = min(boxW, 60)
		if s.err != nil {
			body = removedStyle.Bold(true).Render("Error: " + s.err.Error())
		} else {
			body = addedStyle.Bold(true).Render("Config saved")
			if s.reloaded >= 0 {
				body += "\n" + addedStyle.Render(fmt.Sprintf("Desktop reloaded with %d windows", s.reloaded))
			}
		}
		body += "\n\n" + dimStyle.Render("press any key to dismiss")
	default:
		return ""
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxStyle.Width(boxW).Render(body))
}

// configDiff renders both configs as YAML and returns their line diff with
// two lines of context around each change. Equal configs give nil.
func configDiff(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	a, errA := yaml.Marshal(original)
	b, errB := yaml.Marshal(current)
	if errA != nil || errB != nil {
		return nil
	}
	as, bs := strings.TrimSpace(string(a)), strings.TrimSpace(string(b))
	if as == bs {
		return nil
	}
	return diffLines(strings.Split(as, "\n"), strings.Split(bs, "\n"), 2)
}

// diffLines diffs a against b keeping context unchanged lines around each
// change. Hunks are separated by a "..." line.
func diffLines(a, b []string, context int) []diffLine {
	// Config YAML repeats lines such as "children: []" a lot; autojunk
	// would hide them from the matcher.
	m := difflib.NewMatcherWithJunk(a, b, false, nil)
	var out []diffLine
	for n, group := range m.GetGroupedOpCodes(context) {
		if n > 0 {
			out = append(out, diffLine{diffSame, "..."})
		}
		for _, op := range group {
			if op.Tag == 'e' {
				for _, l := range a[op.I1:op.I2] {
					out = append(out, diffLine{diffSame, l})
				}
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				for _, l := range a[op.I1:op.I2] {
					out = append(out, diffLine{diffRemoved, l})
				}
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				for _, l := range b[op.J1:op.J2] {
					out = append(out, diffLine{diffAdded, l})
				}
			}
		}
	}
	return out
}

// cloneConfig deep-copies cfg through YAML.
func cloneConfig(cfg *config.Config) *config.Config {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil
	}
	var out config.Config
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}
