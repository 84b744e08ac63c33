// Package config loads runtime settings from defaults, an optional config
// file, SLEEPLENS_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// ============================================================================
// CONFIG — viper-backed settings
// ============================================================================

// Sources the dataset can be read from.
const (
	SourceCSV   = "csv"
	SourceMySQL = "mysql"
)

// Config is the resolved runtime configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DataConfig selects the dataset source.
type DataConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8050)
	v.SetDefault("server.debug", false)
	v.SetDefault("data.source", SourceCSV)
	v.SetDefault("data.path", "Sleep_health_and_lifestyle_dataset.csv")
	v.SetDefault("data.dsn", "")
	v.SetDefault("data.table", "sleep_health")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix("SLEEPLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file into v and decodes the result.
// An empty path searches for sleeplens.{yaml,toml,json} in the working
// directory; not finding one is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sleeplens")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and source-specific requirements.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	switch c.Data.Source {
	case SourceCSV:
		if c.Data.Path == "" {
			problems = append(problems, "data.path is required for csv source")
		}
	case SourceMySQL:
		if c.Data.DSN == "" {
			problems = append(problems, "data.dsn is required for mysql source")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown data.source %q", c.Data.Source))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ============================================================================
// LOGGER
// ============================================================================

// NewLogger builds the process logger. Debug mode forces debug level and
// console output.
func NewLogger(c *Config) *zerolog.Logger {
	return newLogger(c, os.Stderr)
}

func newLogger(c *Config, out io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.Server.Debug {
		level = zerolog.DebugLevel
	}

	w := out
	if c.Server.Debug || c.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", "sleeplens").Logger()
	return &logger
}
