// Package config loads optional per-root settings from .getcontext.yml.
// Everything here is a default; CLI flags override loaded values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the scan root.
const FileName = ".getcontext.yml"

// Config holds scan defaults for one root directory.
type Config struct {
	// Exclude holds extra ignore patterns applied after .contextignore.
	Exclude []string `yaml:"exclude"`
	// UseGitignore additionally applies .gitignore rules.
	UseGitignore bool `yaml:"use_gitignore"`
	// Workers bounds the extraction pool; 0 means the built-in default.
	Workers int `yaml:"workers"`
	// MaxFileSize excludes files above this many bytes; 0 means the
	// built-in 1MB default.
	MaxFileSize int64 `yaml:"max_file_size"`
	// Output is the default artifact destination; empty means stdout.
	Output string `yaml:"output"`
}

// Load reads <root>/.getcontext.yml. A missing file yields the zero
// config with no error. A malformed file also yields the zero config,
// with the parse error returned so the caller can log a warning; a bad
// settings file never aborts a scan.
func Load(rootDir string) (Config, error) {
	path := filepath.Join(rootDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	if cfg.MaxFileSize < 0 {
		cfg.MaxFileSize = 0
	}
	return cfg, nil
}
