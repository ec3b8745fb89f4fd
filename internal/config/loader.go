package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
	SourceEnv     SourceKind = "env"
)

// Source says where the effective value of one key came from.
type Source struct {
	Kind   SourceKind
	Name   string // environment variable for env sources
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceEnv:
		return "env " + s.Name
	default:
		return string(SourceDefault)
	}
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // key path -> last writer
	Files   []string          // files read, includes before their includer
}

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "relic", "config.yaml"), nil
}

// LoadWithSources loads the config at DefaultConfigPath.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path (a missing file means defaults), its includes and
// the RELIC_* environment overrides, then validates the result.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{
		cfg:     DefaultConfig(),
		sources: map[string]Source{},
		seen:    map[string]bool{},
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := l.file(path); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	envSources, err := applyEnv(l.cfg)
	if err != nil {
		return nil, err
	}
	for key, src := range envSources {
		l.sources[key] = src
	}

	if err := l.cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && verr.Path != "" {
			if src, ok := l.sources[verr.Path]; ok {
				verr.Source = src
			}
		}
		return nil, err
	}
	return &LoadResult{Config: l.cfg, Sources: l.sources, Files: l.files}, nil
}

// loader decodes a file tree into one Config. A file's includes are decoded
// before the file itself, so the includer wins key by key and lists are
// replaced rather than appended.
type loader struct {
	cfg     *Config
	sources map[string]Source
	files   []string
	seen    map[string]bool
	chain   []string
}

func (l *loader) file(path string) error {
	canon := canonicalPath(path)
	if i := slices.Index(l.chain, canon); i >= 0 {
		cycle := append(slices.Clone(l.chain[i:]), canon)
		return fmt.Errorf("include cycle detected: %s", strings.Join(cycle, " -> "))
	}
	if l.seen[canon] {
		return nil
	}
	l.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	top := documentRoot(&doc)

	l.chain = append(l.chain, canon)
	for _, inc := range includeNodes(top) {
		paths, err := expandInclude(canon, inc.Value)
		if err != nil {
			return fmt.Errorf("%s:%d:%d: include %q: %w", canon, inc.Line, inc.Column, inc.Value, err)
		}
		for _, p := range paths {
			if err := l.file(p); err != nil {
				return err
			}
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(l.cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", canon, err)
	}
	recordSources(top, canon, "", l.sources)
	l.files = append(l.files, canon)
	return nil
}

// canonicalPath resolves symlinks when it can and falls back to the absolute
// path otherwise.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// includeNodes returns the scalar entries of a top-level include key, which
// is either one path or a list of paths.
func includeNodes(top *yaml.Node) []*yaml.Node {
	if top.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		if top.Content[i].Value != "include" {
			continue
		}
		val := top.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []*yaml.Node{val}
		case yaml.SequenceNode:
			var out []*yaml.Node
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					out = append(out, item)
				}
			}
			return out
		}
		return nil
	}
	return nil
}

// expandInclude resolves an include relative to the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, errors.New("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include[1:], "/"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}
	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			if !e.IsDir() {
				out = append(out, filepath.Join(include, e.Name()))
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// recordSources stores the position of every value under node. Mapping keys
// join with dots and sequence items use an index suffix, as in
// windows[0].children[1].title.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i].Value, node.Content[i+1]
			if prefix != "" {
				key = prefix + "." + key
			}
			out[key] = at(val)
			recordSources(val, file, key, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			key := prefix + "[" + strconv.Itoa(i) + "]"
			out[key] = at(item)
			recordSources(item, file, key, out)
		}
	}
}
