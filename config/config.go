package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"ai_content_generator/generator"
)

// EnvPrefix prefixes every environment variable, e.g. CONTENTGEN_LLM_PROVIDER.
const EnvPrefix = "CONTENTGEN"

// Config holds the application settings.
type Config struct {
	ServerAddr  string           `yaml:"server_addr" split_words:"true"`
	CORSOrigins []string         `yaml:"cors_origins" envconfig:"CORS_ORIGINS"`
	Log         LogConfig        `yaml:"log" split_words:"true"`
	LLM         LLMConfig        `yaml:"llm" split_words:"true"`
	Generation  GenerationConfig `yaml:"generation" split_words:"true"`
	Sessions    SessionsConfig   `yaml:"sessions" split_words:"true"`
}

type LogConfig struct {
	Level      string `yaml:"level" split_words:"true"`
	Encoding   string `yaml:"encoding" split_words:"true"`
	OutputPath string `yaml:"output_path" split_words:"true"`
}

// LLMConfig selects the model provider. APIKey may also come from OPENAI_API_KEY.
type LLMConfig struct {
	Provider   string        `yaml:"provider" split_words:"true"`
	APIKey     string        `yaml:"api_key" envconfig:"OPENAI_API_KEY"`
	BaseURL    string        `yaml:"base_url" split_words:"true"`
	Timeout    time.Duration `yaml:"timeout" split_words:"true"`
	MaxRetries int           `yaml:"max_retries" split_words:"true"`
	RetryDelay time.Duration `yaml:"retry_delay" split_words:"true"`
}

// GenerationConfig is the model/temperature surface offered to users.
type GenerationConfig struct {
	Models             []string `yaml:"models" split_words:"true"`
	DefaultModel       string   `yaml:"default_model" split_words:"true"`
	DefaultTemperature float64  `yaml:"default_temperature" split_words:"true"`
}

// SessionsConfig bounds the in-memory session store. Zero disables a limit.
type SessionsConfig struct {
	IdleTTL     time.Duration `yaml:"idle_ttl" split_words:"true"`
	MaxSessions int           `yaml:"max_sessions" split_words:"true"`
}

var providers = []string{"openai", "deepseek", "ollama", "mock"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ServerAddr:  ":8080",
		CORSOrigins: []string{"http://localhost:3000"},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		LLM: LLMConfig{
			Provider:   "openai",
			Timeout:    120 * time.Second,
			MaxRetries: generator.DefaultMaxRetries,
			RetryDelay: time.Second,
		},
		Generation: GenerationConfig{
			Models:             generator.Models(),
			DefaultModel:       generator.DefaultModel,
			DefaultTemperature: generator.DefaultTemperature,
		},
		Sessions: SessionsConfig{
			IdleTTL:     generator.DefaultSessionIdleTTL,
			MaxSessions: generator.DefaultMaxSessions,
		},
	}
}

// Load layers defaults, the YAML file at path (optional when empty), the
// dotenv file and the process environment, in that order.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		// Existing variables win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !slices.Contains(providers, strings.ToLower(c.LLM.Provider)) {
		return fmt.Errorf("llm provider %q not supported", c.LLM.Provider)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries must be >= 0, got %d", c.LLM.MaxRetries)
	}
	if len(c.Generation.Models) == 0 {
		return errors.New("generation.models must not be empty")
	}
	if !slices.Contains(c.Generation.Models, c.Generation.DefaultModel) {
		return fmt.Errorf("default model %q is not in generation.models", c.Generation.DefaultModel)
	}
	if c.Sessions.IdleTTL < 0 || c.Sessions.MaxSessions < 0 {
		return errors.New("sessions idle_ttl and max_sessions must be >= 0")
	}
	t := c.Generation.DefaultTemperature
	if t < generator.MinTemperature || t > generator.MaxTemperature {
		return fmt.Errorf("default temperature %.2f out of range [0,1]", t)
	}
	return nil
}

// LLMSettings converts the config into the generator's client settings.
func (c Config) LLMSettings() generator.LLMSettings {
	return generator.LLMSettings{
		Provider:   c.LLM.Provider,
		APIKey:     c.LLM.APIKey,
		BaseURL:    c.LLM.BaseURL,
		Timeout:    c.LLM.Timeout,
		MaxRetries: c.LLM.MaxRetries,
		RetryDelay: c.LLM.RetryDelay,
	}
}

// StoreOptions converts the session limits into store options.
func (c Config) StoreOptions() []generator.StoreOption {
	return []generator.StoreOption{
		generator.WithIdleTTL(c.Sessions.IdleTTL),
		generator.WithMaxSessions(c.Sessions.MaxSessions),
	}
}

// DefaultParams returns the generation parameters used when a request omits them.
func (c Config) DefaultParams() generator.Params {
	return generator.Params{
		Model:       c.Generation.DefaultModel,
		Temperature: c.Generation.DefaultTemperature,
	}
}

// AllowsModel reports whether model is offered on the configuration surface.
func (c Config) AllowsModel(model string) bool {
	return slices.Contains(c.Generation.Models, model)
}
