// Package config loads the optional .shexcheck.yaml file.
//
// Command-line flags take precedence over the file; the CLI applies file
// values only to flags the user did not set.
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

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = ".shexcheck.yaml"

// Config mirrors the persistent and sweep flags.
type Config struct {
	// SchemasDir is the directory entry references resolve against.
	SchemasDir string `yaml:"schemas_dir,omitempty"`

	// Manifest is the manifest path used when none is given on the command line.
	Manifest string `yaml:"manifest,omitempty"`

	// DB is the run history database.
	DB string `yaml:"db,omitempty"`

	KeepGoing bool     `yaml:"keep_going,omitempty"`
	Only      []string `yaml:"only,omitempty"`

	// Format is "text" or "json".
	Format string `yaml:"format,omitempty"`

	// Path is the file the config was read from; empty when none was found.
	Path string `yaml:"-"`
}

// Load reads the config at path. With an empty path it reads DefaultFile
// from the working directory if present and otherwise returns an empty
// Config. An explicit path that does not exist is an error.
//
// Relative paths inside the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes config YAML, rejecting unknown keys.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("format must be text or json, got %q", c.Format)
	}
	for _, p := range c.Only {
		if p == "" {
			return fmt.Errorf("only patterns must be non-empty")
		}
	}
	return nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.SchemasDir, &c.Manifest, &c.DB} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}
