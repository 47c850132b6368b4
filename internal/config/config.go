// Package config loads XDAO_IFACE_* environment settings shared by the
// binaries. Command-line flags override every value.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the environment configuration.
type Config struct {
	LogLevel       string `env:"XDAO_IFACE_LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"XDAO_IFACE_LOG_DEVELOPMENT"`

	Listen       string `env:"XDAO_IFACE_LISTEN" envDefault:"127.0.0.1:7777"`
	Backend      string `env:"XDAO_IFACE_BACKEND" envDefault:"localfs"`
	LocalFSDir   string `env:"XDAO_IFACE_LOCALFS_DIR"`
	StoreConfig  string `env:"XDAO_IFACE_STORE_CONFIG"`
	RequireIface bool   `env:"XDAO_IFACE_REQUIRE_IFACE" envDefault:"true"`

	KeyDir string `env:"XDAO_IFACE_KEY_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var c Config
	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// NewLogger builds a JSON production logger, or a console development logger,
// at level.
func NewLogger(level string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// Logger is NewLogger with the configured level and mode.
func (c Config) Logger() (*zap.Logger, error) {
	return NewLogger(c.LogLevel, c.LogDevelopment)
}
