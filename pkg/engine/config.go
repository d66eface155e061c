package engine

import (
	"fmt"
	"os"

	"github.com/germanamz/analytical/pkg/customvar"
	"gopkg.in/yaml.v3"
)

// Config is the top-level engine configuration.
type Config struct {
	// Strict enables range validation of configured custom variables.
	// Rendering itself never validates.
	Strict    bool             `yaml:"strict"`
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig describes an analytics provider instance. Not every kind
// reads every field.
type ProviderConfig struct {
	Name              string               `yaml:"name"`
	Kind              string               `yaml:"kind"`
	Key               string               `yaml:"key"` //nolint:gosec // account identifier, not a secret
	Domain            string               `yaml:"domain,omitempty"`
	AllowLinker       bool                 `yaml:"allow_linker,omitempty"`
	TrackPageLoadTime bool                 `yaml:"track_page_load_time,omitempty"`
	CustomVariables   []customvar.Variable `yaml:"custom_variables,omitempty"`
}

// LoadConfig reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so account keys can live in the environment (e.g. loaded
// from a .env file) rather than in the config.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("engine: load config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig expands environment variables in data and parses it as YAML.
func ParseConfig(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("engine: config: at least one provider is required")
	}

	names := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("engine: config: provider name is required")
		}
		if p.Kind == "" {
			return fmt.Errorf("engine: config: provider %q: kind is required", p.Name)
		}
		if _, ok := getFactory(p.Kind); !ok {
			return fmt.Errorf("engine: config: provider %q: unknown kind %q", p.Name, p.Kind)
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("engine: config: duplicate provider name %q", p.Name)
		}
		names[p.Name] = struct{}{}

		if c.Strict {
			if err := customvar.ValidateAll(p.CustomVariables); err != nil {
				return fmt.Errorf("engine: config: provider %q: %w", p.Name, err)
			}
		}
	}

	return nil
}
