// Package config loads process configuration with spf13/viper: environment
// variables prefixed PREDIX_ override an optional config.yaml, which in
// turn overrides the defaults set here.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every tunable the server needs at startup.
type Config struct {
	HTTPAddr      string        `mapstructure:"http_addr"`
	InboxCapacity int           `mapstructure:"inbox_capacity"`
	ReplyTimeout  time.Duration `mapstructure:"reply_timeout"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
	LogLevel      string        `mapstructure:"log_level"`
	MetricsAddr   string        `mapstructure:"metrics_addr"`
}

// Load reads config.yaml (if present in the current directory) and
// PREDIX_-prefixed environment variables, falling back to defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PREDIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("inbox_capacity", 64)
	v.SetDefault("reply_timeout", 2*time.Second)
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_addr", ":9090")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
