package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/planweave/planweave/internal/errors"
)

// FileConfig represents an optional planweave.yaml carrying per-provider
// overrides. Environment variables in the file are expanded before
// parsing, so credentials can be referenced as ${OPENAI_API_KEY} without
// being written to disk.
type FileConfig struct {
	Providers []FileProvider `yaml:"providers"`
}

// FileProvider is one provider entry in planweave.yaml.
type FileProvider struct {
	Name        string  `yaml:"name"`
	Model       string  `yaml:"model,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	BaseURL     string  `yaml:"base_url,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
}

// LoadFileConfig reads and validates a planweave.yaml.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalidValue,
			fmt.Sprintf("read config file %s", path), err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalidValue,
			fmt.Sprintf("parse config file %s", path), err)
	}

	for i, p := range cfg.Providers {
		if _, err := ParseIdentity(p.Name); err != nil {
			return nil, errors.Newf(errors.ErrCodeConfigInvalidValue,
				"config file %s: provider %d: unsupported name %q", path, i, p.Name)
		}
	}

	return &cfg, nil
}

// ConfigFor returns the explicit Config for an identity, or nil when the
// file has no entry for it.
func (f *FileConfig) ConfigFor(identity Identity) *Config {
	for _, p := range f.Providers {
		parsed, err := ParseIdentity(p.Name)
		if err != nil || parsed != identity {
			continue
		}
		return &Config{
			Identity:    identity,
			Model:       p.Model,
			APIKey:      p.APIKey,
			BaseURL:     p.BaseURL,
			Temperature: p.Temperature,
			MaxTokens:   p.MaxTokens,
		}
	}
	return nil
}
