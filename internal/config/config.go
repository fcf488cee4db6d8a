// Package config loads scholarnav settings from an optional YAML file, a
// .env file and SCHOLARNAV_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/scholarnav/internal/kv"
	"github.com/abhisek/scholarnav/internal/llm"
	"github.com/abhisek/scholarnav/internal/scholarship"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SCHOLARNAV"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	LLM      llm.Config         `mapstructure:"llm"`
	Storage  StorageConfig      `mapstructure:"storage"`
	Log      LogConfig          `mapstructure:"log"`
	Analysis scholarship.Config `mapstructure:"analysis"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

// StorageConfig selects where saved analyses and preferences live. The
// LLM call log always goes to the SQLite database at Path.
type StorageConfig struct {
	Backend string         `mapstructure:"backend"`
	Path    string         `mapstructure:"path"` // Default: store.DefaultDBPath
	Redis   kv.RedisConfig `mapstructure:"redis"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
	File   string `mapstructure:"file"`   // TUI log sink; empty disables TUI logging
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM: llm.DefaultConfig(),
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Redis: kv.RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "scholarnav:",
			},
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Analysis: scholarship.DefaultConfig(),
	}
}

// envAliases are the short variable names accepted next to the ones
// derived from the key path (SCHOLARNAV_LLM_GEMINI_API_KEY and so on).
var envAliases = map[string]string{
	"llm.gemini.api_key":     "GEMINI_API_KEY",
	"llm.openai.api_key":     "OPENAI_API_KEY",
	"llm.anthropic.api_key":  "ANTHROPIC_API_KEY",
	"llm.openrouter.api_key": "OPENROUTER_API_KEY",
	"storage.path":           "DB",
}

// Load reads configuration. path names an explicit config file and must
// exist; when empty, ./scholarnav.yaml and then
// $XDG_CONFIG_HOME/scholarnav/config.yaml are tried. A .env file in the
// working directory is loaded first but never replaces variables that are
// already set. Missing provider keys are then discovered from the vendor
// variables (GEMINI_API_KEY and friends).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		derived := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, derived, EnvPrefix+"_"+alias); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	file, err := resolveFile(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = file
	cfg.LLM.Discover(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the storage and log sections. Provider credentials are
// checked when a provider is built, so commands that never call one work
// without a key.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("storage.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	if c.Analysis.MaxTokens < 0 {
		return fmt.Errorf("analysis.max_tokens must not be negative")
	}
	return nil
}

func resolveFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

func searchPaths() []string {
	paths := []string{"scholarnav.yaml"}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir != "" {
		paths = append(paths, filepath.Join(dir, "scholarnav", "config.yaml"))
	}
	return paths
}

// setDefaults registers every key with viper. AutomaticEnv only applies
// to keys viper already knows about.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.LLM.Gemini.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", d.LLM.OpenAI.BaseURL)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.LLM.Anthropic.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.LLM.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", d.LLM.OpenRouter.BaseURL)
	v.SetDefault("llm.retry.max_attempts", d.LLM.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.LLM.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.LLM.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.LLM.Retry.Multiplier)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.redis.addr", d.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", d.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.prefix", d.Storage.Redis.Prefix)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("analysis.max_tokens", d.Analysis.MaxTokens)
	v.SetDefault("analysis.temperature", d.Analysis.Temperature)
}
