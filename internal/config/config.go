package config

import (
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the application.
type Config struct {
	Server Server         `mapstructure:"server"`
	Poller Poller         `mapstructure:"poller"`
	Retry  retry.Strategy `mapstructure:"retry"`
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort string `mapstructure:"http_port"` // HTTP port to listen on
	// Token is the shared secret required from non-loopback producers.
	// Loopback callers are exempt; an empty token locks out every
	// remote caller.
	Token string `mapstructure:"token"`
}

// Poller holds configuration for the delivery poller.
type Poller struct {
	BaseURL  string        `mapstructure:"base_url"` // relay server base URL
	Interval time.Duration `mapstructure:"interval"` // fetch period, default 30s
	Token    string        `mapstructure:"token"`
}

// mustBindEnv binds critical environment variables to Viper keys.
//
// It panics if any environment variable cannot be bound.
func mustBindEnv() {
	bindings := map[string]string{
		"server.http_port": "RELAY_HTTP_PORT",
		"server.token":     "RELAY_TOKEN",

		"poller.base_url": "RELAY_BASE_URL",
		"poller.token":    "RELAY_TOKEN",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			zlog.Logger.Panic().Err(err).Msgf("failed to bind env %s", env)
		}
	}
}

// Must loads and validates the configuration from file and environment variables.
//
// It panics if configuration cannot be read or unmarshalled.
func Must() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to read config")
	}

	mustBindEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msgf("failed to unmarshal config: %v", err)
	}

	if cfg.Poller.Interval <= 0 {
		cfg.Poller.Interval = 30 * time.Second
	}

	return &cfg
}
