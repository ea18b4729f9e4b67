package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "dfalex.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Lexer  lexerConfig  `toml:"lexer"`
	Output outputConfig `toml:"output"`
}

type lexerConfig struct {
	Table      string   `toml:"table"`
	Extensions []string `toml:"extensions"`
}

type outputConfig struct {
	Format string `toml:"format"`
}

// findManifest walks up from startDir looking for dfalex.toml.
func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	for _, ext := range cfg.Lexer.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return projectConfig{}, fmt.Errorf("%s: [lexer].extensions: %q must start with '.'", path, ext)
		}
	}
	if meta.IsDefined("output", "format") {
		if err := checkFormat(cfg.Output.Format); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [output].format: %w", path, err)
		}
	}
	return cfg, nil
}

// tablePath resolves [lexer].table relative to the manifest directory.
func (m *projectManifest) tablePath() string {
	if m == nil || strings.TrimSpace(m.Config.Lexer.Table) == "" {
		return ""
	}
	p := filepath.FromSlash(m.Config.Lexer.Table)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, p)
}

func checkFormat(format string) error {
	switch format {
	case "pretty", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json)", format)
	}
}
