// Package config provides configuration management for draw-a-ui.
// It uses Viper to load settings from files, environment variables, and CLI flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for draw-a-ui.
type Config struct {
	// ── Proxy server ─────────────────────────────────────────────────────────
	ServerHost string `mapstructure:"server_host"`
	Port       int    `mapstructure:"port"`

	// ── Upstream completions API ─────────────────────────────────────────────
	// OpenAIAPIKey is the process-wide fallback credential. A request cookie
	// named OPENAI_API_KEY always takes precedence over it.
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string `mapstructure:"openai_base_url"`
	Model           string `mapstructure:"model"`
	MaxTokens       int    `mapstructure:"max_tokens"`
	UpstreamTimeout int    `mapstructure:"upstream_timeout_seconds"`

	// ── Client ───────────────────────────────────────────────────────────────
	ProxyURL       string `mapstructure:"proxy_url"`
	CookieDBPath   string `mapstructure:"cookie_db_path"`
	CookieDBDriver string `mapstructure:"cookie_db_driver"` // only "sqlite" for now
}

// Timeout returns the upstream timeout as a duration; zero disables it.
func (c *Config) Timeout() time.Duration {
	if c.UpstreamTimeout <= 0 {
		return 0
	}
	return time.Duration(c.UpstreamTimeout) * time.Second
}

// ListenAddr returns host:port for the proxy server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.Port)
}

// Load reads config from file (./config.yaml or ~/.drawui/config.yaml)
// and falls back to defaults. Environment variables with prefix DRAWUI_
// override file values. The bare OPENAI_API_KEY variable is honoured too.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("port", 3000)

	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "https://api.openai.com")
	v.SetDefault("model", "gpt-4-vision-preview")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("upstream_timeout_seconds", 120)

	v.SetDefault("proxy_url", "http://127.0.0.1:3000")
	v.SetDefault("cookie_db_path", "drawui.db")
	v.SetDefault("cookie_db_driver", "sqlite")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.drawui")
	if err := v.ReadInConfig(); err != nil {
		// config file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("DRAWUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("openai_api_key", "DRAWUI_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
