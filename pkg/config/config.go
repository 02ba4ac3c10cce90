// Package config loads fp defaults from project and user config files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile and UserFile are the config file names searched by Load.
const (
	ProjectFile = ".fp.yaml"
	UserFile    = "config.yaml"
	UserDir     = ".fp"
)

// Config holds defaults that command line flags override.
type Config struct {
	MaxSteps int64  `yaml:"maxSteps,omitempty"`
	LogLevel string `yaml:"logLevel,omitempty"`
	Pretty   bool   `yaml:"pretty,omitempty"`
	JSON     bool   `yaml:"json,omitempty"`

	// Path is the file the config was read from; empty for defaults.
	Path string `yaml:"-"`
}

// Load reads the config with precedence project (.fp.yaml in dir), then
// user (~/.fp/config.yaml), then defaults. A file that exists but does not
// decode is an error.
func Load(dir string) (*Config, error) {
	candidates := []string{filepath.Join(dir, ProjectFile)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, UserDir, UserFile))
	}
	for _, path := range candidates {
		cfg, err := loadFile(path)
		if err == nil {
			return cfg, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return Default(), nil
}

// Default returns the built-in defaults: no step limit, info logging.
func Default() *Config {
	return &Config{LogLevel: "info"}
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("config %s: maxSteps must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}
