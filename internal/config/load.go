package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied before file and environment sources.
const (
	defaultPort                 = 3000
	defaultLogLevel             = "info"
	defaultTokenLifetimeMinutes = 0 // 0 means tokens never expire; revocation still applies
	defaultFromAddress          = "no-reply@taskman.local"
)

// Load reads configuration from an optional config.yaml in the working
// directory and from TASKMAN_-prefixed environment variables, environment
// taking precedence. The result is validated before being returned.
//
// Nested keys map to environment variables with underscores, e.g.
// TASKMAN_DATABASE_URL, TASKMAN_AUTH_JWT_SECRET, TASKMAN_SERVER_PORT.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMinutes)
	v.SetDefault("mail.from_address", defaultFromAddress)

	// Keys without defaults still need to be known to viper for
	// AutomaticEnv to feed them into Unmarshal.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("mail.sendgrid_api_key", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKMAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; the environment is the primary source.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
