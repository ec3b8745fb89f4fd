package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"golang.org/x/term"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/desktop"
)

func runInspect(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/relic/config.yaml)")
	asJSON := fs.Bool("json", false, "Print the scene as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic inspect [--path PATH] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Build the configured scene on a headless surface and print it.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "inspect takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	cfg.Surface = config.SurfaceHeadless

	d, err := openDesktop(cfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = d.Close() }()
	snap := d.Snapshot()

	if *asJSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	styled := false
	if f, ok := stdout.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	fmt.Fprintln(stdout, renderTree(snap, styled))
	return 0
}

type inspectStyles struct {
	root  func(string) string
	kind  func(string) string
	title func(string) string
	dim   func(string) string
	enum  lipgloss.Style
}

func newInspectStyles(styled bool) inspectStyles {
	if !styled {
		plain := func(s string) string { return s }
		return inspectStyles{root: plain, kind: plain, title: plain, dim: plain}
	}
	render := func(st lipgloss.Style) func(string) string {
		return func(s string) string { return st.Render(s) }
	}
	return inspectStyles{
		root:  render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))),
		kind:  render(lipgloss.NewStyle().Foreground(lipgloss.Color("12"))),
		title: render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))),
		dim:   render(lipgloss.NewStyle().Foreground(lipgloss.Color("245"))),
		enum:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// renderTree draws the desktop and its descendants, one control per line.
func renderTree(snap desktop.Snapshot, styled bool) string {
	st := newInspectStyles(styled)
	label := fmt.Sprintf("desktop %dx%d", snap.Surface.Width, snap.Surface.Height)
	if snap.Dragging != "" {
		label += " dragging=" + snap.Dragging
	}
	t := tree.Root(st.root(label))
	for _, child := range snap.Root.Children {
		t.Child(nodeTree(child, st, styled))
	}
	if styled {
		t.Enumerator(tree.RoundedEnumerator).EnumeratorStyle(st.enum)
	}
	return t.String()
}

func nodeTree(n desktop.Node, st inspectStyles, styled bool) any {
	label := nodeLabel(n, st)
	if len(n.Children) == 0 {
		return label
	}
	sub := tree.Root(label)
	for _, child := range n.Children {
		sub.Child(nodeTree(child, st, styled))
	}
	if styled {
		sub.Enumerator(tree.RoundedEnumerator).EnumeratorStyle(st.enum)
	}
	return sub
}

func nodeLabel(n desktop.Node, st inspectStyles) string {
	parts := []string{st.kind(n.Kind)}
	if n.Name != "" {
		parts = append(parts, fmt.Sprintf("%q", n.Name))
	}
	parts = append(parts, st.dim(fmt.Sprintf("%d,%d %dx%d", n.X, n.Y, n.Width, n.Height)))
	if n.Title != "" {
		parts = append(parts, st.title(fmt.Sprintf("title=%q", n.Title)))
	}
	if n.WindowStyle != "" && n.WindowStyle != "sizable" {
		parts = append(parts, st.dim("style="+n.WindowStyle))
	}
	if n.Background != "" {
		parts = append(parts, st.dim("bg="+n.Background))
	}
	if n.Tag != "" {
		parts = append(parts, st.dim("tag="+n.Tag))
	}
	if n.Focused {
		parts = append(parts, "[focused]")
	}
	return strings.Join(parts, " ")
}
