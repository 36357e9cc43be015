package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "GURNEY_MODEL", "GURNEY_USERNAME", "GURNEY_PASSWORD"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, DefaultStartURL, cfg.StartURL)
	assert.Equal(t, DefaultMaxSteps, cfg.MaxSteps)
	assert.Empty(t, cfg.Credentials.Username)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  base_url: http://localhost:8080/v1
  model: local-model
  api_key: file-key
credentials:
  username: alice
  password: hunter2
start_url: https://app.example.com
max_steps: 10
allowed_urls:
  - "https://app.example.com/*"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "local-model", cfg.LLM.Model)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, "alice", cfg.Credentials.Username)
	assert.Equal(t, "hunter2", cfg.Credentials.Password)
	assert.Equal(t, "https://app.example.com", cfg.StartURL)
	assert.Equal(t, 10, cfg.MaxSteps)
	assert.Equal(t, []string{"https://app.example.com/*"}, cfg.AllowedURLs)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  api_key: file-key
credentials:
  username: file-user
`), 0600))

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("GURNEY_USERNAME", "env-user")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, "env-user", cfg.Credentials.Username)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestMaxStepsClampedFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_steps: 500"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MaxStepsLimit, cfg.MaxSteps)
}

func TestClampSteps(t *testing.T) {
	cfg := &Config{MaxSteps: 20}

	assert.Equal(t, 20, cfg.ClampSteps(0))
	assert.Equal(t, 20, cfg.ClampSteps(-3))
	assert.Equal(t, 5, cfg.ClampSteps(5))
	assert.Equal(t, MaxStepsLimit, cfg.ClampSteps(999))
}
