package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Output formats understood by the fetchjson command.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the command configuration loaded from .env files and environment variables.
type Config struct {
	AppName             string        `mapstructure:"app_name"`
	LogLevel            string        `mapstructure:"log_level"`
	UserAgent           string        `mapstructure:"user_agent"`
	OutputFormat        string        `mapstructure:"output_format"`
	FetchTimeoutSeconds int64         `mapstructure:"fetch_timeout_seconds"`
	FetchTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "jsonfetch")
	v.SetDefault("log_level", "info")
	v.SetDefault("user_agent", "jsonfetch/1.0")
	v.SetDefault("output_format", OutputJSON)
	v.SetDefault("fetch_timeout_seconds", 30)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid fetch_timeout_seconds (must be positive seconds)")
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	switch cfg.OutputFormat {
	case OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("invalid output_format %q (want json or yaml)", cfg.OutputFormat)
	}

	return &cfg, nil
}
