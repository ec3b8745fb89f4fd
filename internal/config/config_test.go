package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/relic/internal/control"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidWithGreetingWindow(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if len(cfg.Windows) != 1 {
		t.Fatalf("expected one default window, got %d", len(cfg.Windows))
	}
	w := cfg.Windows[0]
	if w.Title != "Hello, World" || w.X != 250 || w.Y != 100 || w.Width != 350 || w.Height != 250 {
		t.Fatalf("unexpected default window: %+v", w)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Surface != SurfaceTerm {
		t.Fatalf("expected default surface, got %q", res.Config.Surface)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Term.CellWidth != 8 || res.Config.Term.CellHeight != 16 {
		t.Fatalf("expected default cells, got %+v", res.Config.Term)
	}
}

func TestLoadFromPath_PartialOverrideKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"surface: headless",
		"headless:",
		"  width: 640",
		"theme:",
		"  desktop: \"#202020\"",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Surface != SurfaceHeadless || cfg.Headless.Width != 640 {
		t.Fatalf("expected headless 640, got %q %d", cfg.Surface, cfg.Headless.Width)
	}
	if cfg.Headless.Height != 768 {
		t.Fatalf("expected default height to survive, got %d", cfg.Headless.Height)
	}
	if cfg.Theme.Desktop != "#202020" || cfg.Theme.TitleFocused == "" {
		t.Fatalf("expected merged theme, got %+v", cfg.Theme)
	}
}

func TestLoadFromPath_NestedWindows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"windows:",
		"  - name: main",
		"    title: Main",
		"    width: 400",
		"    height: 300",
		"    children:",
		"      - kind: container",
		"        name: panel",
		"        width: 100",
		"        height: 80",
		"        children:",
		"          - kind: control",
		"            name: swatch",
		"            background: navy",
		"  - name: tool",
		"    window_style: tool",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ws := res.Config.Windows
	if len(ws) != 2 {
		t.Fatalf("expected configured windows to replace defaults, got %d", len(ws))
	}
	if ws[0].EffectiveKind() != KindWindow || ws[0].Children[0].Children[0].Name != "swatch" {
		t.Fatalf("unexpected nesting: %+v", ws[0])
	}

	val, src, err := Explain(res, "windows[0].children[0].name")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "panel" {
		t.Fatalf("expected panel, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 8 {
		t.Fatalf("expected file source on line 8, got %+v", src)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), "config.yaml") {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"windows:",
		"  - name: main",
		"    window_style: wobbly",
		"",
	}, "\n"))

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "windows[0].window_style" {
		t.Fatalf("unexpected path %q", verr.Path)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected line 3, got %+v", verr.Source)
	}
	if !errors.Is(err, control.ErrUnknownBorderStyle) {
		t.Fatalf("expected wrapped ErrUnknownBorderStyle, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "gap_size: 5\narrange: grid\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "gap_size: 6\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"gap_size: 7",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GapSize != 7 {
		t.Fatalf("expected gap_size to be 7, got %d", res.Config.GapSize)
	}
	if res.Config.Arrange != "grid" {
		t.Fatalf("expected arrange from include, got %q", res.Config.Arrange)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
	if !strings.HasSuffix(res.Sources["arrange"].File, "10-base.yaml") {
		t.Fatalf("expected arrange sourced from 10-base.yaml, got %+v", res.Sources["arrange"])
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	t.Setenv("RELIC_SURFACE", "headless")
	t.Setenv("RELIC_LOG_LEVEL", "debug")
	t.Setenv("RELIC_ARRANGE", "cascade")

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "surface: x11\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Surface != SurfaceHeadless {
		t.Fatalf("expected env to win over file, got %q", res.Config.Surface)
	}
	if res.Config.Logging.Level != "debug" || res.Config.Arrange != "cascade" {
		t.Fatalf("unexpected overrides: %+v %q", res.Config.Logging, res.Config.Arrange)
	}
	if src := res.Sources["surface"]; src.Kind != SourceEnv || src.Name != "RELIC_SURFACE" {
		t.Fatalf("expected env source, got %+v", src)
	}
}

func TestLoadFromPath_InvalidEnvOverride(t *testing.T) {
	t.Setenv("RELIC_SURFACE", "wayland")

	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "surface" {
		t.Fatalf("expected surface validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "RELIC_SURFACE") {
		t.Fatalf("expected env name in error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{name: "empty surface", mutate: func(c *Config) { c.Surface = "" }, path: "surface"},
		{name: "cell width", mutate: func(c *Config) { c.Term.CellWidth = 0 }, path: "term.cell_width"},
		{name: "arrange", mutate: func(c *Config) { c.Arrange = "spiral" }, path: "arrange"},
		{name: "gap", mutate: func(c *Config) { c.GapSize = -1 }, path: "gap_size"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "loud" }, path: "logging.level"},
		{name: "theme", mutate: func(c *Config) { c.Theme.Title = "nope" }, path: "theme"},
		{name: "kind", mutate: func(c *Config) { c.Windows[0].Kind = "widget" }, path: "windows[0].kind"},
		{name: "leaf children", mutate: func(c *Config) {
			c.Windows[0].Children = []ControlSpec{{Kind: KindControl, Children: []ControlSpec{{Kind: KindControl}}}}
		}, path: "windows[0].children[0].children"},
		{name: "title on container", mutate: func(c *Config) {
			c.Windows[0].Children = []ControlSpec{{Kind: KindContainer, Title: "x"}}
		}, path: "windows[0].children[0]"},
		{name: "color", mutate: func(c *Config) { c.Windows[0].Background = "nope" }, path: "windows[0].background"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surface = SurfaceHeadless
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, string(data))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load marshalled config: %v", err)
	}
	if res.Config.Surface != SurfaceHeadless || res.Config.Windows[0].Title != "Hello, World" {
		t.Fatalf("unexpected reload: %+v", res.Config)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Surface = SurfaceHeadless
	cfg.GapSize = 12
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if res.Config.GapSize != 12 || res.Config.Surface != SurfaceHeadless {
		t.Fatalf("unexpected saved config: %+v", res.Config)
	}

	cfg.Surface = "wayland"
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
	res, err = LoadFromPath(path)
	if err != nil || res.Config.Surface != SurfaceHeadless {
		t.Fatalf("expected file untouched after rejected save, got %v", err)
	}
}
