package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/relic/internal/ipc"
	"github.com/1broseidon/relic/internal/palette"
)

func runPalette(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "auto", "Launcher: auto, rofi, fuzzel, wofi or dmenu")
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/relic.sock)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic palette [--backend NAME] [--socket PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a desktop action from a launcher menu.")
	}
	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return showPalette(backend, newClient(*socket), stdout)
}

func showPalette(backend palette.Backend, client *ipc.Client, stdout io.Writer) int {
	snap, err := client.Snapshot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	item, err := backend.Show("relic", palette.Items(snap))
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	msg, err := palette.Run(item.Action, client)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, msg)
	return 0
}
