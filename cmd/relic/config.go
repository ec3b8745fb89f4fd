package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/tui"
)

const configPathUsage = "Config file path (default: ~/.config/relic/config.yaml)"

func printConfigUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  relic config validate [--path PATH]
  relic config print [--path PATH] [--defaults]
  relic config explain [--path PATH] <key>
  relic config edit [--path PATH]
`)
}

func runConfig(args []string, stdout io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stderr)
		return 2
	}

	fs := flag.NewFlagSet("config "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", configPathUsage)
	defaults := false
	if args[0] == "print" {
		fs.BoolVar(&defaults, "defaults", false, "Print built-in defaults (no files)")
	}

	var cmd func(path string, rest []string, stdout io.Writer) error
	switch args[0] {
	case "validate":
		cmd = configValidate
	case "print":
		cmd = func(path string, _ []string, stdout io.Writer) error {
			return configPrint(path, defaults, stdout)
		}
	case "explain":
		cmd = configExplain
	case "edit":
		cmd = func(path string, _ []string, _ io.Writer) error { return tui.Run(path) }
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}

	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if args[0] == "explain" && fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "explain requires <key>, e.g. windows[0].title")
		return 2
	}
	if err := cmd(*path, fs.Args(), stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func configValidate(path string, _ []string, stdout io.Writer) error {
	if _, err := loadConfig(path); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "config: ok")
	return nil
}

func configPrint(path string, defaults bool, stdout io.Writer) error {
	cfg := config.DefaultConfig()
	if !defaults {
		res, err := loadConfig(path)
		if err != nil {
			return err
		}
		cfg = res.Config
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func configExplain(path string, rest []string, stdout io.Writer) error {
	key := rest[0]
	res, err := loadConfig(path)
	if err != nil {
		return err
	}
	value, src, err := config.Explain(res, key)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "path: %s\nsource: %s\nvalue:\n%s", key, formatSource(src), out)
	return nil
}

// formatSource renders a source as default, env:NAME or file:PATH:LINE:COL.
func formatSource(src config.Source) string {
	switch {
	case src.Kind == config.SourceEnv:
		return "env:" + src.Name
	case src.Kind != config.SourceFile:
		return string(config.SourceDefault)
	case src.File == "":
		return "file"
	case src.Line > 0:
		return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
	default:
		return "file:" + src.File
	}
}
