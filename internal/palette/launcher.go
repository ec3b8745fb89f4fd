package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type launcherKind int

const (
	kindRofi launcherKind = iota
	kindFuzzel
	kindWofi
	kindDmenu
)

var kindByName = map[string]launcherKind{
	"rofi":   kindRofi,
	"fuzzel": kindFuzzel,
	"wofi":   kindWofi,
	"dmenu":  kindDmenu,
}

func (k launcherKind) String() string {
	switch k {
	case kindRofi:
		return "rofi"
	case kindFuzzel:
		return "fuzzel"
	case kindWofi:
		return "wofi"
	default:
		return "dmenu"
	}
}

// indexOutput reports whether the launcher prints the row index instead of
// the row text.
func (k launcherKind) indexOutput() bool {
	return k == kindRofi || k == kindFuzzel
}

// runFunc executes a launcher with stdin and returns its stdout.
type runFunc func(name string, args []string, stdin string) (string, error)

// launcher drives any dmenu-compatible program: rows on stdin, the
// selection on stdout, exit status 1 on cancel.
type launcher struct {
	kind launcherKind
	run  runFunc
}

func newLauncher(k launcherKind) *launcher {
	return &launcher{kind: k, run: execRun}
}

func (l *launcher) Name() string { return l.kind.String() }

func (l *launcher) Show(prompt string, items []Item) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}
	rows := make([]string, len(items))
	for i, it := range items {
		rows[i] = l.formatRow(it)
	}

	out, err := l.run(l.kind.String(), l.args(prompt, items), strings.Join(rows, "\n"))
	selection := strings.TrimSpace(out)
	if err != nil {
		var exitErr *exec.ExitError
		if selection == "" && errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return Item{}, ErrCancelled
		}
		return Item{}, fmt.Errorf("%s failed: %w", l.kind, err)
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := l.parseSelection(selection, items)
	if err != nil {
		return Item{}, err
	}
	if item.IsHeader {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (l *launcher) args(prompt string, items []Item) []string {
	var args []string
	switch l.kind {
	case kindRofi:
		args = []string{"-dmenu", "-i", "-p", prompt, "-format", "i", "-no-custom", "-markup-rows"}
		var active []string
		for i, it := range items {
			if it.IsActive {
				active = append(active, strconv.Itoa(i))
			}
		}
		if len(active) > 0 {
			args = append(args, "-a", strings.Join(active, ","))
		}
	case kindFuzzel:
		args = []string{"--dmenu", "--prompt", prompt + " ", "--index"}
	case kindWofi:
		args = []string{"--dmenu", "--prompt", prompt}
	case kindDmenu:
		args = []string{"-i", "-p", prompt}
	}
	return args
}

func (l *launcher) formatRow(it Item) string {
	label := strings.ReplaceAll(it.Label, "\n", " ")
	if l.kind != kindRofi {
		return label
	}
	label = html.EscapeString(label)
	if it.IsHeader {
		return "<b>" + label + "</b>\x00nonselectable\x1ftrue"
	}
	return label
}

func (l *launcher) parseSelection(selection string, items []Item) (Item, error) {
	if l.kind.indexOutput() {
		idx, err := strconv.Atoi(selection)
		if err != nil || idx < 0 || idx >= len(items) {
			return Item{}, fmt.Errorf("%s returned invalid index %q", l.kind, selection)
		}
		return items[idx], nil
	}
	for _, it := range items {
		if strings.ReplaceAll(it.Label, "\n", " ") == selection {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%s returned unknown entry %q", l.kind, selection)
}

func execRun(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%w: %s", err, msg)
		}
	}
	return string(out), err
}
