package palette

import (
	"fmt"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/desktop"
	"github.com/1broseidon/relic/internal/tiling"
)

type ActionKind string

const (
	ActionArrange ActionKind = "arrange"
	ActionFocus   ActionKind = "focus"
	ActionReload  ActionKind = "reload"
)

// Action is what a row does when picked. Arg is a mode or a window id
// depending on Kind.
type Action struct {
	Kind ActionKind
	Arg  string
}

func (a Action) String() string {
	if a.Arg == "" {
		return string(a.Kind)
	}
	return string(a.Kind) + ":" + a.Arg
}

// Executor carries out actions against a running desktop.
type Executor interface {
	Arrange(mode string) error
	Focus(ref string) error
	Reload() (int, error)
}

// Items builds the menu for the live scene.
func Items(snap desktop.Snapshot) []Item {
	var items []Item

	var windows []desktop.Node
	for _, n := range snap.Root.Children {
		if n.Kind == config.KindWindow {
			windows = append(windows, n)
		}
	}
	if len(windows) > 0 {
		items = append(items, Item{Label: "Windows", IsHeader: true})
		for _, w := range windows {
			label := "Focus " + displayName(w)
			if w.Title != "" && w.Title != w.Name {
				label += fmt.Sprintf(" (%s)", w.Title)
			}
			items = append(items, Item{
				Label:    label,
				Action:   Action{Kind: ActionFocus, Arg: w.ID},
				IsActive: w.Focused,
			})
		}
	}

	items = append(items, Item{Label: "Arrange", IsHeader: true})
	for _, m := range tiling.Modes() {
		items = append(items, Item{Label: "Arrange " + string(m), Action: Action{Kind: ActionArrange, Arg: string(m)}})
	}

	items = append(items, Item{Label: "Reload config", Action: Action{Kind: ActionReload}})
	return items
}

func displayName(n desktop.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Run executes a and returns a one-line result for the user.
func Run(a Action, ex Executor) (string, error) {
	switch a.Kind {
	case ActionArrange:
		if err := ex.Arrange(a.Arg); err != nil {
			return "", err
		}
		return "arranged: " + a.Arg, nil
	case ActionFocus:
		if err := ex.Focus(a.Arg); err != nil {
			return "", err
		}
		return "focused: " + a.Arg, nil
	case ActionReload:
		n, err := ex.Reload()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("reloaded: %d windows", n), nil
	default:
		return "", fmt.Errorf("unknown palette action %q", a)
	}
}
