// Package core holds palaver's project-level configuration. The conversation
// machinery lives in the framing, transcript and conversation subpackages.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file LoadConfig looks for in a directory.
const ConfigFileName = ".palaver.yaml"

// Config holds settings loaded from .palaver.yaml.
type Config struct {
	Completion CompletionSettings `yaml:"completion"`
	Framing    FramingSettings    `yaml:"framing"`
}

// CompletionSettings controls the completion backend and request parameters.
type CompletionSettings struct {
	Provider          string   `yaml:"provider"`            // openai or dummy (default: openai)
	Model             string   `yaml:"model"`               // completion model name
	APIKeyEnv         string   `yaml:"api_key_env"`         // env var name to read API key from (default: OPENAI_API_KEY)
	BaseURL           string   `yaml:"base_url"`            // custom OpenAI-compatible API base URL
	Timeout           string   `yaml:"timeout"`             // per-request timeout (e.g., "30s"); empty means none
	Temperature       *float64 `yaml:"temperature"`         // sampling temperature (default: 0.5)
	MaxTokens         int      `yaml:"max_tokens"`          // cap on generated tokens per reply (default: 30)
	RequestsPerMinute int      `yaml:"requests_per_minute"` // 0 means unlimited
	Script            string   `yaml:"script"`              // action script for the dummy provider
}

// FramingSettings selects the framing scheme.
type FramingSettings struct {
	Scheme string `yaml:"scheme"` // preset name (default: tags)
	File   string `yaml:"file"`   // path to a scheme YAML; takes precedence over Scheme
}

// LoadConfig reads .palaver.yaml from root. If the file does not exist, a
// zero-value Config is returned with no error.
func LoadConfig(root string) (*Config, error) {
	return LoadConfigFile(filepath.Join(root, ConfigFileName))
}

// LoadConfigFile reads the config at path. A missing file yields a zero-value
// Config. A relative framing.file is resolved against the config's directory.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if f := cfg.Framing.File; f != "" && !filepath.IsAbs(f) {
		cfg.Framing.File = filepath.Join(filepath.Dir(path), f)
	}
	return &cfg, nil
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c CompletionSettings) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing completion.timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// APIKey returns the API key from the configured environment variable.
func (c CompletionSettings) APIKey() string {
	env := c.APIKeyEnv
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	return os.Getenv(env)
}
