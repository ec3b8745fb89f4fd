package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/ipc"
)

func runStatus(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/relic.sock)")
	asJSON := fs.Bool("json", false, "Print status as JSON")
	tree := fs.Bool("tree", false, "Also print the live control tree")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic status [--socket PATH] [--json] [--tree]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := newClient(*socket)
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	fmt.Fprintln(stdout, formatStatus(status))
	if *tree {
		snap, err := client.Snapshot()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, renderTree(snap, false))
	}
	return 0
}

func formatStatus(s *ipc.StatusData) string {
	out := fmt.Sprintf("surface: %s %dx%d\nwindows: %d\nuptime:  %s",
		s.Surface, s.Width, s.Height, s.WindowCount,
		time.Duration(s.UptimeSeconds)*time.Second)
	if s.Focused != "" {
		out += "\nfocused: " + s.Focused
	}
	if s.Dragging != "" {
		out += "\ndragging: " + s.Dragging
	}
	return out
}

func runArrange(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("arrange", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/relic.sock)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic arrange [--socket PATH] <cascade|grid|vertical|horizontal>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := newClient(*socket).Arrange(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "arranged: %s\n", fs.Arg(0))
	return 0
}

func newClient(socket string) *ipc.Client {
	if socket != "" {
		return ipc.NewClientAt(socket)
	}
	return ipc.NewClient()
}

func runReload(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/relic.sock)")
	path := fs.String("path", "", "Send the scene of this config file instead of the desktop's own")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic reload [--socket PATH] [--path FILE]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Re-read the config file of a running desktop and rebuild its windows.")
		fmt.Fprintln(os.Stderr, "With --path the windows and arrange mode of FILE are used instead.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := newClient(*socket)
	var n int
	var err error
	if *path != "" {
		var res *config.LoadResult
		if res, err = config.LoadFromPath(*path); err == nil {
			n, err = client.Load(res.Config.Windows, res.Config.Arrange)
		}
	} else {
		n, err = client.Reload()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "reloaded: %d windows\n", n)
	return 0
}

func runFocus(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("focus", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/relic.sock)")
	direction := fs.String("direction", "", "Move focus up, down, left or right instead of naming a window")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic focus [--socket PATH] <window>")
		fmt.Fprintln(os.Stderr, "       relic focus [--socket PATH] --direction <up|down|left|right>")
		fmt.Fprintln(os.Stderr, "       relic focus [--socket PATH] --clear")
	}
	blur := fs.Bool("clear", false, "Blur every window")
	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}

	client := newClient(*socket)
	switch {
	case *direction != "" && fs.NArg() == 0:
		id, err := client.FocusDirection(*direction)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if id == "" {
			fmt.Fprintln(stdout, "no windows")
			return 0
		}
		fmt.Fprintf(stdout, "focused: %s\n", id)
	case *blur && fs.NArg() == 0:
		if err := client.Focus(""); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "focus cleared")
	case fs.NArg() == 1 && *direction == "" && !*blur:
		if err := client.Focus(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "focused: %s\n", fs.Arg(0))
	default:
		fs.Usage()
		return 2
	}
	return 0
}

func flagExit(err error) int {
	if err == flag.ErrHelp {
		return 0
	}
	return 2
}
