// Package config loads edgevec settings from defaults, an optional YAML file,
// EDGEVEC_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ironsheep/edgevec/internal/vector"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// EDGEVEC_THRESHOLD or EDGEVEC_LOG_LEVEL.
const EnvPrefix = "EDGEVEC"

// Config holds every edgevec setting after defaults, the config file,
// environment and flags have been merged.
type Config struct {
	Threshold int        `mapstructure:"threshold"`
	Fill      string     `mapstructure:"fill"`
	Log       LogConfig  `mapstructure:"log"`
	Test      TestConfig `mapstructure:"test"`
}

// LogConfig selects the logrus level ("debug", "info", ...) and output
// format ("text" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TestConfig names the fixed files used by the "test" operation.
type TestConfig struct {
	Input  string `mapstructure:"input"`
	Gray   string `mapstructure:"gray"`
	Edge   string `mapstructure:"edge"`
	Vector string `mapstructure:"vector"`
}

// New returns a viper instance with every key defaulted and environment
// overrides enabled.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("threshold", vector.DefaultThreshold)
	v.SetDefault("fill", vector.DefaultFill)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("test.input", "test_input.png")
	v.SetDefault("test.gray", "test_input_gray.png")
	v.SetDefault("test.edge", "test_output.png")
	v.SetDefault("test.vector", "test_output.svg")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// ReadFile reads the config file at path into v. With an empty path it looks
// for edgevec.yaml in the working directory and in $HOME/.config/edgevec; a
// missing file is not an error in that case.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("edgevec")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "edgevec"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Parse decodes v into a Config and validates it.
func Parse(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every setting and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.VectorOptions().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid config: log format %q must be text or json", c.Log.Format)
	}
	return nil
}

// VectorOptions returns the vectorizer settings.
func (c *Config) VectorOptions() vector.Options {
	return vector.Options{Threshold: c.Threshold, Fill: c.Fill}
}

// NewLogger builds a logrus logger writing to stderr at the configured level
// and format. Stdout is left to command output.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
