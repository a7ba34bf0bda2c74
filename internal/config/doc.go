// Package config loads and validates application configuration from the
// environment (and an optional config file), using viper for sourcing and
// validator for constraint checking.
package config
