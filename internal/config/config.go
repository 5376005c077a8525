package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewFromFile("")
}

// NewFromFile creates a configuration instance. When path is empty the usual search
// locations are used and a missing file is not an error.
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/phish-filter/")
		v.AddConfigPath("$HOME/.phish-filter")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("PHISH_FILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.filter_type", "postfix")
	v.SetDefault("server.listen_address", "0.0.0.0:10025")
	v.SetDefault("server.block_phish", false)
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.headers.score", "X-Phish-Score")
	v.SetDefault("server.headers.level", "X-Phish-Level")
	v.SetDefault("server.headers.reasons", "X-Phish-Reasons")
	v.SetDefault("server.postfix.enabled", true)
	v.SetDefault("server.postfix.address", "127.0.0.1")
	v.SetDefault("server.postfix.port", 10026)
	v.SetDefault("server.modify_subject", false)
	v.SetDefault("server.subject_prefix", "[PHISH?] ")

	// Scoring defaults
	v.SetDefault("scoring.block_threshold", 60)
	v.SetDefault("scoring.long_url_threshold", 110)
	v.SetDefault("scoring.max_input_size", 1<<20)

	// Lexicon overrides, empty keeps the built-in tables
	v.SetDefault("lexicon.urgency_words", []string{})
	v.SetDefault("lexicon.suspicious_phrases", []string{})
	v.SetDefault("lexicon.risky_tlds", []string{})
	v.SetDefault("lexicon.risky_extensions", []string{})
	v.SetDefault("lexicon.brands", []string{})

	v.SetDefault("trusted.domains", []string{})

	// CLI defaults
	v.SetDefault("cli.verbose", false)
	v.SetDefault("cli.json", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
