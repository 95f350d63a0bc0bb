package graphql

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// GQLGenConfig is the subset of gqlgen.yml touched when binding the
// rendered schema. Unknown keys are preserved.
type GQLGenConfig struct {
	Schema   StringList              `yaml:"schema,omitempty"`
	Autobind []string                `yaml:"autobind,omitempty"`
	Models   map[string]TypeMapEntry `yaml:"models,omitempty"`
	Rest     map[string]any          `yaml:",inline"`
}

// TypeMapEntry is the model binding of one GraphQL type.
type TypeMapEntry struct {
	Model  StringList              `yaml:"model,omitempty"`
	Fields map[string]TypeMapField `yaml:"fields,omitempty"`
}

// TypeMapField is the binding of one GraphQL field.
type TypeMapField struct {
	Resolver  bool   `yaml:"resolver,omitempty"`
	FieldName string `yaml:"fieldName,omitempty"`
}

// StringList is a YAML value that is either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// LoadGQLGenConfig reads a gqlgen.yml file. A missing file yields an
// empty configuration.
func LoadGQLGenConfig(path string) (*GQLGenConfig, error) {
	cfg := &GQLGenConfig{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("graphql: read gqlgen config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("graphql: parse gqlgen config: %w", err)
		}
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}
	return cfg, nil
}

// SaveGQLGenConfig writes cfg to path, creating its directory.
func SaveGQLGenConfig(path string, cfg *GQLGenConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("graphql: marshal gqlgen config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("graphql: create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Bind registers schemaPath and binds each GraphQL type to the Go type of
// the same name in modelPackage. An unbound Time scalar is bound to
// gqlgen's graphql.Time.
func (c *GQLGenConfig) Bind(modelPackage, schemaPath string, types ...string) {
	if schemaPath != "" && !slices.Contains(c.Schema, schemaPath) {
		c.Schema = append(c.Schema, schemaPath)
	}
	if c.Models == nil {
		c.Models = make(map[string]TypeMapEntry)
	}
	if _, ok := c.Models["Time"]; !ok {
		c.Models["Time"] = TypeMapEntry{Model: StringList{TimeModel}}
	}
	if modelPackage == "" {
		return
	}
	if !slices.Contains(c.Autobind, modelPackage) {
		c.Autobind = append(c.Autobind, modelPackage)
	}
	for _, name := range types {
		entry := c.Models[name]
		model := modelPackage + "." + name
		if !slices.Contains(entry.Model, model) {
			entry.Model = append(entry.Model, model)
		}
		c.Models[name] = entry
	}
}
