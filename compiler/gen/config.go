package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Nullable kinds of the generated timestamp field.
const (
	NullablePointer = "pointer" // *time.Time
	NullableSQL     = "sql"     // sql.NullTime
)

// Config is the generator configuration.
type Config struct {
	// Package is the Go package name of the generated files.
	Package string `yaml:"package"`
	// Target is the output directory. A relative target in a config file
	// is resolved against the file's directory.
	Target string `yaml:"target"`
	// Header is an optional comment written above the generated notice.
	Header string `yaml:"header,omitempty"`
	// Types lists the host types and their declarations.
	Types []*TypeConfig `yaml:"types"`

	// Force regenerates even when the snapshot is unchanged.
	Force bool `yaml:"-"`
	// Workers bounds parallel file writes.
	Workers int `yaml:"-"`
	// Logger receives generation events. Default is slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// TypeConfig declares the boolean timestamps of one host type.
type TypeConfig struct {
	Name string `yaml:"name"`
	// Table defaults to the pluralized snake name.
	Table  string         `yaml:"table,omitempty"`
	Fields []*FieldConfig `yaml:"fields"`
}

// FieldConfig is one boolean timestamp declaration.
type FieldConfig struct {
	Active  string `yaml:"active"`
	Passive string `yaml:"passive,omitempty"`
	// Nullable is NullablePointer (default) or NullableSQL.
	Nullable string `yaml:"nullable,omitempty"`
	// Field is the Go struct field holding the timestamp.
	Field string `yaml:"field,omitempty"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError("Path", path, err.Error())
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Target != "" && !filepath.IsAbs(cfg.Target) {
		cfg.Target = filepath.Join(filepath.Dir(path), cfg.Target)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML configuration. Unknown keys are rejected.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, NewConfigError("YAML", nil, err.Error())
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on the types.
func (c *Config) Validate() error {
	if c.Package == "" {
		return NewConfigError("Package", nil, "package cannot be empty")
	}
	if c.Target == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	if len(c.Types) == 0 {
		return NewConfigError("Types", nil, "no types declared")
	}
	return nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
