package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai_content_generator/generator"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, generator.DefaultMaxRetries, cfg.LLM.MaxRetries)
	assert.Equal(t, []string{"gpt-4.1-mini", "gpt-4.1"}, cfg.Generation.Models)
	assert.Equal(t, generator.Params{Model: "gpt-4.1-mini", Temperature: 0.7}, cfg.DefaultParams())
	assert.Equal(t, generator.DefaultSessionIdleTTL, cfg.Sessions.IdleTTL)
	assert.Equal(t, generator.DefaultMaxSessions, cfg.Sessions.MaxSessions)
}

func TestLoad_SessionLimitsFromEnv(t *testing.T) {
	t.Setenv("CONTENTGEN_SESSIONS_IDLE_TTL", "15m")
	t.Setenv("CONTENTGEN_SESSIONS_MAX_SESSIONS", "3")
	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Sessions.IdleTTL)
	assert.Equal(t, 3, cfg.Sessions.MaxSessions)
	assert.Len(t, cfg.StoreOptions(), 2)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server_addr: ":9000"
llm:
  provider: mock
  timeout: 30s
  max_retries: 1
generation:
  models: [gpt-4.1]
  default_model: gpt-4.1
  default_temperature: 0.3
`)
	t.Setenv("CONTENTGEN_SERVER_ADDR", ":9100")
	t.Setenv("CONTENTGEN_LLM_RETRY_DELAY", "250ms")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.ServerAddr)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.RetryDelay)
	assert.Equal(t, 1, cfg.LLM.MaxRetries)
	assert.Equal(t, 0.3, cfg.Generation.DefaultTemperature)
	assert.True(t, cfg.AllowsModel("gpt-4.1"))
	assert.False(t, cfg.AllowsModel("gpt-4.1-mini"))
}

func TestLoad_DotEnvProvidesAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")
	env := writeFile(t, ".env", "OPENAI_API_KEY=sk-test\n")
	t.Cleanup(func() { os.Unsetenv("OPENAI_API_KEY") })

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "sk-test", cfg.LLMSettings().APIKey)
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"provider":    func(c *Config) { c.LLM.Provider = "bard" },
		"retries":     func(c *Config) { c.LLM.MaxRetries = -1 },
		"no models":   func(c *Config) { c.Generation.Models = nil },
		"model":       func(c *Config) { c.Generation.DefaultModel = "gpt-2" },
		"temperature": func(c *Config) { c.Generation.DefaultTemperature = 1.5 },
		"sessions":    func(c *Config) { c.Sessions.MaxSessions = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
