package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/relic/internal/control"
	"github.com/1broseidon/relic/internal/theme"
	"github.com/1broseidon/relic/internal/tiling"
)

// Surface names understood by the CLI.
const (
	SurfaceHeadless = "headless"
	SurfaceTerm     = "term"
	SurfaceX11      = "x11"
)

// Control kinds accepted in ControlSpec.Kind.
const (
	KindControl   = "control"
	KindContainer = "container"
	KindWindow    = "window"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// HeadlessConfig sizes the in-memory surface.
type HeadlessConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TermConfig maps terminal cells to surface units.
type TermConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the log file path. Empty logs to stderr, except on the term
	// surface which logs to the runtime log file.
	File string `yaml:"file,omitempty"`
	// Development switches to human readable console output.
	Development bool `yaml:"development,omitempty"`
}

// ControlSpec describes one control of the initial scene.
type ControlSpec struct {
	// Kind is control, container or window (default).
	Kind        string        `yaml:"kind,omitempty"`
	Name        string        `yaml:"name,omitempty"`
	Tag         string        `yaml:"tag,omitempty"`
	X           int           `yaml:"x"`
	Y           int           `yaml:"y"`
	Width       int           `yaml:"width,omitempty"`
	Height      int           `yaml:"height,omitempty"`
	Background  string        `yaml:"background,omitempty"`
	Foreground  string        `yaml:"foreground,omitempty"`
	Font        string        `yaml:"font,omitempty"`
	FontSize    int           `yaml:"font_size,omitempty"`
	Title       string        `yaml:"title,omitempty"`
	WindowStyle string        `yaml:"window_style,omitempty"`
	Children    []ControlSpec `yaml:"children,omitempty"`
}

// Config is the effective relic configuration.
type Config struct {
	Include IncludeList `yaml:"include,omitempty"`

	// Surface selects the host surface driver: headless, term or x11.
	Surface string `yaml:"surface"`
	// Display overrides $DISPLAY for the x11 surface.
	Display string `yaml:"display,omitempty"`

	Headless HeadlessConfig `yaml:"headless"`
	Term     TermConfig     `yaml:"term"`

	// Arrange is applied once after the scene is populated; empty keeps the
	// configured positions.
	Arrange string `yaml:"arrange,omitempty"`
	GapSize int    `yaml:"gap_size"`

	Logging LoggingConfig `yaml:"logging"`
	Theme   theme.Theme   `yaml:"theme"`

	Windows []ControlSpec `yaml:"windows"`
}

// DefaultConfig returns the built-in configuration: a terminal desktop with a
// single greeting window.
func DefaultConfig() *Config {
	return &Config{
		Surface: SurfaceTerm,
		Headless: HeadlessConfig{
			Width:  1024,
			Height: 768,
		},
		Term: TermConfig{
			CellWidth:  8,
			CellHeight: 16,
		},
		GapSize: 8,
		Logging: LoggingConfig{
			Level: "info",
		},
		Theme: theme.Default(),
		Windows: []ControlSpec{
			{
				Kind:   KindWindow,
				Name:   "hello",
				Title:  "Hello, World",
				X:      250,
				Y:      100,
				Width:  350,
				Height: 250,
			},
		},
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out := *c
	out.Include = nil
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveTo validates the configuration and writes it to path, keeping its
// include list. Merged include content is written too.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration. Errors are *ValidationError carrying the
// YAML path of the offending value.
func (c *Config) Validate() error {
	switch strings.TrimSpace(c.Surface) {
	case SurfaceHeadless, SurfaceTerm, SurfaceX11:
	case "":
		return &ValidationError{Path: "surface", Err: fmt.Errorf("surface is required")}
	default:
		return &ValidationError{Path: "surface", Err: fmt.Errorf("surface must be one of: headless, term, x11")}
	}
	if c.Headless.Width <= 0 || c.Headless.Height <= 0 {
		return &ValidationError{Path: "headless", Err: fmt.Errorf("headless width and height must be > 0")}
	}
	if c.Term.CellWidth <= 0 {
		return &ValidationError{Path: "term.cell_width", Err: fmt.Errorf("cell_width must be > 0")}
	}
	if c.Term.CellHeight <= 0 {
		return &ValidationError{Path: "term.cell_height", Err: fmt.Errorf("cell_height must be > 0")}
	}
	if c.Arrange != "" {
		if _, err := tiling.ParseMode(c.Arrange); err != nil {
			return &ValidationError{Path: "arrange", Err: err}
		}
	}
	if c.GapSize < 0 {
		return &ValidationError{Path: "gap_size", Err: fmt.Errorf("gap_size must be >= 0")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if err := c.Theme.Validate(); err != nil {
		return &ValidationError{Path: "theme", Err: err}
	}
	for i := range c.Windows {
		if err := validateControl(&c.Windows[i], fmt.Sprintf("windows[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateControl(spec *ControlSpec, path string) error {
	kind := spec.EffectiveKind()
	switch kind {
	case KindControl, KindContainer, KindWindow:
	default:
		return &ValidationError{Path: path + ".kind", Err: fmt.Errorf("kind must be one of: control, container, window")}
	}
	if spec.Width < 0 || spec.Height < 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be >= 0")}
	}
	if spec.FontSize < 0 {
		return &ValidationError{Path: path + ".font_size", Err: fmt.Errorf("font_size must be >= 0")}
	}
	for _, c := range []struct{ key, value string }{
		{"background", spec.Background},
		{"foreground", spec.Foreground},
	} {
		if c.value == "" {
			continue
		}
		if _, err := theme.Parse(c.value); err != nil {
			return &ValidationError{Path: path + "." + c.key, Err: err}
		}
	}
	if kind == KindWindow {
		if _, err := control.ParseBorderStyle(spec.WindowStyle); err != nil {
			return &ValidationError{Path: path + ".window_style", Err: err}
		}
	} else if spec.WindowStyle != "" || spec.Title != "" {
		return &ValidationError{Path: path, Err: fmt.Errorf("title and window_style only apply to windows")}
	}
	if kind == KindControl && len(spec.Children) > 0 {
		return &ValidationError{Path: path + ".children", Err: fmt.Errorf("a control cannot hold children")}
	}
	for i := range spec.Children {
		if err := validateControl(&spec.Children[i], fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveKind returns the spec kind, defaulting to window.
func (s ControlSpec) EffectiveKind() string {
	k := strings.ToLower(strings.TrimSpace(s.Kind))
	if k == "" {
		return KindWindow
	}
	return k
}
