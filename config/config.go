// Package config loads service configuration from file, environment, and
// defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/brain-battle/notes-server/storage"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig holds the LLM backend settings.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"` // "openai" | "openrouter"
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Storage  storage.Config `mapstructure:"storage"`
	LogLevel string         `mapstructure:"log_level"`
}

// Load reads configuration from cfgFile (or the default search paths),
// the NOTESERVER_* environment, and built-in defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.notes-server")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("NOTESERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file: defaults plus environment.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "openai", "openrouter":
	default:
		return fmt.Errorf("llm.provider must be \"openai\" or \"openrouter\", got %q", c.LLM.Provider)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required (or set NOTESERVER_LLM_API_KEY)")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.address", ":8080")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 2*time.Minute)

	v.SetDefault("storage.path", "notes.db")
	v.SetDefault("storage.in_memory", false)
	v.SetDefault("storage.busy_timeout", 5*time.Second)

	_ = v.BindEnv("llm.api_key", "NOTESERVER_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.model", "NOTESERVER_LLM_MODEL")
	_ = v.BindEnv("llm.provider", "NOTESERVER_LLM_PROVIDER")
}
