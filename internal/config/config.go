package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/capset/attribute"
)

// Config is a capability catalog together with the settings of the set
// that holds it.
type Config struct {
	Indexed      []string           `yaml:"indexed"`
	Scan         ScanConfig         `yaml:"scan"`
	Logging      LoggingConfig      `yaml:"logging"`
	Schema       map[string]string  `yaml:"schema"`
	Capabilities []CapabilityConfig `yaml:"capabilities"`
}

// ScanConfig tunes the fallback scan.
type ScanConfig struct {
	ParallelThreshold int `yaml:"parallel_threshold"` // 0 = default, negative disables
	Workers           int `yaml:"workers"`            // 0 = GOMAXPROCS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error (default: info)
	Format string `yaml:"format"` // text, json (default: text)
}

// CapabilityConfig describes one capability.
type CapabilityConfig struct {
	Namespace  string            `yaml:"namespace"`
	Attributes []AttributeConfig `yaml:"attributes"`
}

// AttributeConfig describes one attribute. Without Type the kind is
// inferred from the YAML scalar; version attributes always need a Type.
type AttributeConfig struct {
	Name      string `yaml:"name"`
	Value     any    `yaml:"value"`
	Type      string `yaml:"type"`
	Mandatory bool   `yaml:"mandatory"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog from YAML, applies defaults and validates it.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format)
	}
	for i, name := range c.Indexed {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("indexed[%d] is empty", i)
		}
	}
	if _, err := c.AttributeSchema(); err != nil {
		return err
	}

	var errs []error
	for i := range c.Capabilities {
		if _, err := c.Capabilities[i].Build(); err != nil {
			errs = append(errs, fmt.Errorf("capabilities[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel maps logging.level to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// AttributeSchema converts the schema section. It returns nil when no
// schema is configured.
func (c *Config) AttributeSchema() (attribute.Schema, error) {
	if len(c.Schema) == 0 {
		return nil, nil
	}
	schema := make(attribute.Schema, len(c.Schema))
	for name, kindName := range c.Schema {
		kind, err := attribute.ParseKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("schema.%s: %w", name, err)
		}
		schema[name] = kind
	}
	return schema, nil
}

// BuildCapabilities converts every configured capability.
func (c *Config) BuildCapabilities() ([]*attribute.Capability, error) {
	caps := make([]*attribute.Capability, 0, len(c.Capabilities))
	for i := range c.Capabilities {
		capability, err := c.Capabilities[i].Build()
		if err != nil {
			return nil, fmt.Errorf("capabilities[%d]: %w", i, err)
		}
		caps = append(caps, capability)
	}
	return caps, nil
}

// Build converts the entry into a capability.
func (cc *CapabilityConfig) Build() (*attribute.Capability, error) {
	attrs := make([]attribute.Attribute, 0, len(cc.Attributes))
	for _, ac := range cc.Attributes {
		v, err := ac.value()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", ac.Name, err)
		}
		attrs = append(attrs, attribute.Attribute{Name: ac.Name, Value: v, Mandatory: ac.Mandatory})
	}
	return attribute.New(cc.Namespace, attrs...)
}

func (ac *AttributeConfig) value() (attribute.Value, error) {
	if ac.Value == nil {
		return attribute.Value{}, attribute.ErrInvalidValue
	}
	if ac.Type == "" {
		return attribute.FromAny(ac.Value)
	}
	kind, err := attribute.ParseKind(ac.Type)
	if err != nil {
		return attribute.Value{}, err
	}
	return attribute.FromAnyAs(kind, ac.Value)
}
