package tyrant

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds client-side connection settings. Grounded on the teacher's
// server Config (config.go): same viper setup, same mapstructure-tagged
// struct/DefaultConfig/LoadConfig/Validate/String shape, fields swapped from
// listen-settings to dial-settings.
type Config struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	TCPKeepAlive bool `mapstructure:"tcp_keepalive"`

	// Separator, when non-empty, lets the Dictionary façade store and
	// split list-valued records (spec §4.5).
	Separator string `mapstructure:"separator"`
	// Literal suppresses UTF-8 decoding on GET, returning raw bytes.
	Literal bool `mapstructure:"literal"`
}

// DefaultConfig returns a Config with the protocol's documented defaults
// (spec §6: host 127.0.0.1, port 1978).
func DefaultConfig() *Config {
	return &Config{
		Host:           "127.0.0.1",
		Port:           1978,
		DialTimeout:    10 * time.Second,
		CommandTimeout: 10 * time.Second,
		LogLevel:       "info",
		LogFormat:      "text",
		TCPKeepAlive:   true,
	}
}

// LoadConfig loads configuration from environment variables, a config file,
// and (if bound beforehand by the caller, e.g. the CLI) command-line flags.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	viper.SetConfigName("tyrant")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/tyrant/")
	viper.AddConfigPath("$HOME/.tyrant")

	viper.SetEnvPrefix("TYRANT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("host", config.Host)
	viper.SetDefault("port", config.Port)
	viper.SetDefault("dial_timeout", config.DialTimeout)
	viper.SetDefault("command_timeout", config.CommandTimeout)
	viper.SetDefault("log_level", config.LogLevel)
	viper.SetDefault("log_format", config.LogFormat)
	viper.SetDefault("tcp_keepalive", config.TCPKeepAlive)
	viper.SetDefault("separator", config.Separator)
	viper.SetDefault("literal", config.Literal)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be 1-65535)", c.Port)
	}

	validLogLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validLevel := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log_level: %s (must be one of: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	return nil
}

// Addr returns the "host:port" dial address for this configuration.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String returns a human-readable summary of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Tyrant client config: %s, dial_timeout=%v, log_level=%s",
		c.Addr(), c.DialTimeout, c.LogLevel)
}
