package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. RELIC_SURFACE.
const EnvPrefix = "relic"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv {
		return fmt.Sprintf("%s (from %s): %v", e.Path, e.Source.Name, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// envOverrides lists the settings that can be overridden from the
// environment. Unset variables leave the pointers nil.
type envOverrides struct {
	Surface  *string `envconfig:"SURFACE"`
	Display  *string `envconfig:"DISPLAY"`
	Arrange  *string `envconfig:"ARRANGE"`
	LogLevel *string `envconfig:"LOG_LEVEL"`
	LogFile  *string `envconfig:"LOG_FILE"`
}

// applyEnv applies RELIC_* variables on top of cfg and returns their sources.
func applyEnv(cfg *Config) (map[string]Source, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	sources := map[string]Source{}
	set := func(path, name string, value *string, dst *string) {
		if value == nil {
			return
		}
		*dst = *value
		sources[path] = Source{Kind: SourceEnv, Name: name}
	}
	set("surface", "RELIC_SURFACE", env.Surface, &cfg.Surface)
	set("display", "RELIC_DISPLAY", env.Display, &cfg.Display)
	set("arrange", "RELIC_ARRANGE", env.Arrange, &cfg.Arrange)
	set("logging.level", "RELIC_LOG_LEVEL", env.LogLevel, &cfg.Logging.Level)
	set("logging.file", "RELIC_LOG_FILE", env.LogFile, &cfg.Logging.File)
	return sources, nil
}
