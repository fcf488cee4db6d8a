package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scholarnav/internal/llm"
)

// isolate runs the test in an empty directory with no config or key
// variables visible.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"SCHOLARNAV_GEMINI_API_KEY", "SCHOLARNAV_LLM_PROVIDER", "SCHOLARNAV_STORAGE_BACKEND",
		"SCHOLARNAV_DB", "SCHOLARNAV_LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-flash", cfg.LLM.Gemini.Model)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4096, cfg.Analysis.MaxTokens)
	assert.Empty(t, cfg.File)
	assert.False(t, cfg.LLM.HasKey())
}

func TestLoad_WorkingDirFile(t *testing.T) {
	isolate(t)
	writeFile(t, "scholarnav.yaml", `
llm:
  provider: anthropic
  timeout: 45s
  anthropic:
    api_key: sk-file
storage:
  backend: memory
analysis:
  temperature: 0.2
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "scholarnav.yaml", cfg.File)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.InDelta(t, 0.2, cfg.Analysis.Temperature, 1e-9)
	// Untouched keys keep their defaults.
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestLoad_XDGFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "xdg", "scholarnav", "config.yaml"), "log:\n  level: debug\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	isolate(t)
	_, err := Load("nope.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	writeFile(t, "custom.yaml", "storage:\n  backend: memory\n")
	t.Setenv("SCHOLARNAV_STORAGE_BACKEND", "redis")
	t.Setenv("SCHOLARNAV_STORAGE_REDIS_ADDR", "cache:6379")
	t.Setenv("SCHOLARNAV_LLM_PROVIDER", "openai")
	t.Setenv("SCHOLARNAV_OPENAI_API_KEY", "sk-env")

	cfg, err := Load("custom.yaml")
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_DBAlias(t *testing.T) {
	isolate(t)
	t.Setenv("SCHOLARNAV_DB", "/tmp/x.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Storage.Path)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	isolate(t)
	t.Setenv("API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "SCHOLARNAV_LOG_LEVEL=error\nSCHOLARNAV_LOG_FORMAT=json\n")
	t.Setenv("SCHOLARNAV_LOG_LEVEL", "info")
	t.Setenv("SCHOLARNAV_LOG_FORMAT", "")
	os.Unsetenv("SCHOLARNAV_LOG_FORMAT")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"memory", func(c *Config) { c.Storage.Backend = BackendMemory }, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "etcd" }, true},
		{"redis without addr", func(c *Config) {
			c.Storage.Backend = BackendRedis
			c.Storage.Redis.Addr = ""
		}, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"negative tokens", func(c *Config) { c.Analysis.MaxTokens = -1 }, true},
		{"no key is fine", func(c *Config) { c.LLM.Gemini.APIKey = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
