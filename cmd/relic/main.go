package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/1broseidon/relic/internal/config"
	"github.com/1broseidon/relic/internal/desktop"
	"github.com/1broseidon/relic/internal/ipc"
	"github.com/1broseidon/relic/internal/logging"
	"github.com/1broseidon/relic/internal/platform"
	"github.com/1broseidon/relic/internal/runtimepath"
	"github.com/1broseidon/relic/internal/theme"
	"github.com/1broseidon/relic/internal/tiling"
	"github.com/1broseidon/relic/internal/watch"

	// Surface drivers register themselves.
	_ "github.com/1broseidon/relic/internal/term"
	_ "github.com/1broseidon/relic/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "inspect":
		os.Exit(runInspect(os.Args[2:], os.Stdout))
	case "status":
		os.Exit(runStatus(os.Args[2:], os.Stdout))
	case "arrange":
		os.Exit(runArrange(os.Args[2:], os.Stdout))
	case "focus":
		os.Exit(runFocus(os.Args[2:], os.Stdout))
	case "reload":
		os.Exit(runReload(os.Args[2:], os.Stdout))
	case "palette":
		os.Exit(runPalette(os.Args[2:], os.Stdout))
	case "config":
		os.Exit(runConfig(os.Args[2:], os.Stdout))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: relic <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the desktop on the configured surface")
	fmt.Fprintln(w, "  inspect             Print the configured scene as a tree")
	fmt.Fprintln(w, "  status              Show the running desktop's status")
	fmt.Fprintln(w, "  arrange <mode>      Arrange the running desktop's windows")
	fmt.Fprintln(w, "  focus <window>      Focus a window of the running desktop")
	fmt.Fprintln(w, "  reload              Rebuild the running desktop's scene from config")
	fmt.Fprintln(w, "  palette             Pick a desktop action from rofi, fuzzel, wofi or dmenu")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config edit         Edit configuration interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Surfaces: %v\n", platform.Drivers())
	fmt.Fprintln(w, "Run 'relic <command> --help' for command-specific options.")
}

// startWatcher follows the config files in the background. Surface and gap
// changes still need a restart; the scene and arrange mode are applied live.
func startWatcher(ctx context.Context, d *desktop.Desktop, path string, files []string, logger *zap.Logger) error {
	primary := path
	if primary == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return err
		}
		primary = p
	}
	w, err := watch.New(watch.Options{
		Paths:  []string{primary},
		Load:   func() (*config.LoadResult, error) { return loadConfig(path) },
		Apply:  func(ctx context.Context, cfg *config.Config) error { return applyScene(ctx, d, cfg) },
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if err := w.Watch(files); err != nil {
		logger.Warn("config partly watched", zap.Error(err))
	}
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watcher stopped", zap.Error(err))
		}
	}()
	return nil
}

func applyScene(ctx context.Context, d *desktop.Desktop, cfg *config.Config) error {
	var mode tiling.Mode
	if cfg.Arrange != "" {
		m, err := tiling.ParseMode(cfg.Arrange)
		if err != nil {
			return err
		}
		mode = m
	}
	return d.Do(ctx, func(d *desktop.Desktop) error {
		return d.Reload(cfg.Windows, mode)
	})
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// openOptions maps the config onto driver options. Only the headless
// surface takes its size from the config; the others follow their host.
func openOptions(cfg *config.Config) platform.OpenOptions {
	opts := platform.OpenOptions{
		CellWidth:  cfg.Term.CellWidth,
		CellHeight: cfg.Term.CellHeight,
		Display:    cfg.Display,
		Palette:    theme.NewPalette(cfg.Theme),
	}
	if cfg.Surface == config.SurfaceHeadless {
		opts.Width, opts.Height = cfg.Headless.Width, cfg.Headless.Height
	}
	return opts
}

// newLogger builds the process logger. The terminal surface owns the tty,
// so it logs to the runtime log file unless logging.file is set.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lc := logging.DefaultConfig()
	lc.Level = cfg.Logging.Level
	lc.Development = cfg.Logging.Development
	switch {
	case cfg.Logging.File != "":
		lc.OutputPaths = []string{cfg.Logging.File}
	case cfg.Surface == config.SurfaceTerm:
		path, err := runtimepath.LogPath()
		if err != nil {
			return nil, err
		}
		lc.OutputPaths = []string{path}
	}
	return logging.New(lc)
}

// openDesktop opens the configured surface, builds the scene and applies
// the configured arrangement.
func openDesktop(cfg *config.Config, logger *zap.Logger) (*desktop.Desktop, error) {
	d, err := desktop.New(desktop.Options{
		SurfaceName: cfg.Surface,
		Open:        openOptions(cfg),
		Gap:         cfg.GapSize,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	if err := d.Populate(cfg.Windows); err != nil {
		_ = d.Close()
		return nil, err
	}
	if cfg.Arrange != "" {
		mode, err := tiling.ParseMode(cfg.Arrange)
		if err == nil {
			err = d.Arrange(mode)
		}
		if err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return d, nil
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/relic/config.yaml)")
	surface := fs.String("surface", "", "Override the configured surface (headless, term, x11)")
	noSocket := fs.Bool("no-socket", false, "Do not open the control socket")
	watchConfig := fs.Bool("watch", false, "Rebuild the scene when the config files change")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: relic run [--path PATH] [--surface NAME] [--no-socket] [--watch]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the desktop and process input until the surface closes.")
		fmt.Fprintln(os.Stderr, "On the term surface press q, Esc or Ctrl+C to quit.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *surface != "" {
		cfg.Surface = *surface
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	d, err := openDesktop(cfg, logger)
	if err != nil {
		logger.Error("desktop failed to start", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = d.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*noSocket {
		srv, err := ipc.NewServer(d, cfg.Surface, logger)
		if err == nil {
			srv.SetConfigLoader(func() (*config.Config, error) {
				res, err := loadConfig(*path)
				if err != nil {
					return nil, err
				}
				return res.Config, nil
			})
			err = srv.Start()
		}
		if err != nil {
			logger.Warn("control socket unavailable", zap.Error(err))
		} else {
			defer func() { _ = srv.Close() }()
		}
	}

	if *watchConfig {
		if err := startWatcher(ctx, d, *path, res.Files, logger); err != nil {
			logger.Warn("config watcher unavailable", zap.Error(err))
		}
	}

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("desktop stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
