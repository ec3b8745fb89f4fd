// Package palette shows desktop actions in an external launcher menu such
// as rofi or dmenu and returns the one the user picked.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the menu is closed without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Item is one selectable row.
type Item struct {
	Label    string
	Action   Action
	IsHeader bool // not selectable; rendered bold where supported
	IsActive bool
}

// Backend shows items and returns the selected one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
	Name() string
}

// searchOrder is the detection priority.
var searchOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range searchOrder {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(searchOrder, ", "))
}

// NewBackend creates a backend by name; "" and "auto" detect one.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	k, ok := kindByName[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(searchOrder, ", "))
	}
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return newLauncher(k), nil
}
