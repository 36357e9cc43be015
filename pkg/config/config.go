// Package config loads Gurney runtime configuration from a YAML file
// with environment-variable overrides. A missing config file is not an
// error: defaults cover everything except the API key and credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for a fresh installation. The default endpoint is Gemini's
// OpenAI-compatibility layer, which the agent was originally built
// against; any OpenAI-compatible endpoint works.
const (
	DefaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel    = "gemini-2.0-flash"
	DefaultStartURL = "https://learnpf.ai"
	DefaultMaxSteps = 20

	// MaxStepsLimit is the hard upper bound on the step budget accepted
	// from any caller.
	MaxStepsLimit = 50
)

// LLMConfig configures the completion provider.
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// CredentialsConfig holds the secrets substituted for the model's
// placeholder tokens. Either value may be absent; an absent value leaves
// the placeholder intact at fill time.
type CredentialsConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config is the full runtime configuration.
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Credentials CredentialsConfig `yaml:"credentials"`

	// StartURL is the page a run opens when the caller does not name one.
	StartURL string `yaml:"start_url"`

	// MaxSteps is the default step budget per run.
	MaxSteps int `yaml:"max_steps"`

	// AllowedURLs optionally restricts navigate actions to URLs matching
	// one of these glob patterns. Empty means no restriction.
	AllowedURLs []string `yaml:"allowed_urls"`
}

// DefaultPath returns the default config file location,
// ~/.gurney/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gurney", "config.yaml"), nil
}

// Load reads configuration from path, then applies environment
// overrides and defaults. An empty path means the default location; a
// missing file yields defaults plus environment values.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		defaultPath, err := DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing file is fine; fall through to env + defaults.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values.
// Environment wins over the file so deployments can override without
// editing config on disk.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("GURNEY_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("GURNEY_USERNAME"); v != "" {
		c.Credentials.Username = v
	}
	if v := os.Getenv("GURNEY_PASSWORD"); v != "" {
		c.Credentials.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultBaseURL
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultModel
	}
	if c.StartURL == "" {
		c.StartURL = DefaultStartURL
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.MaxSteps > MaxStepsLimit {
		c.MaxSteps = MaxStepsLimit
	}
}

// ClampSteps bounds a caller-provided step budget to 1..MaxStepsLimit,
// substituting the configured default for non-positive values.
func (c *Config) ClampSteps(steps int) int {
	if steps <= 0 {
		return c.MaxSteps
	}
	if steps > MaxStepsLimit {
		return MaxStepsLimit
	}
	return steps
}
