// Package tui is the interactive configuration editor behind
// `relic config edit`.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/ipc"
)

// Run edits the config file at path, or the default config file when path is
// empty, until the user quits.
func Run(path string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("config edit requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	m, err := newModel(path, ipc.NewClient())
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
