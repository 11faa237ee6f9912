// Package config loads the command line tool settings from the environment.
package config

import (
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	// Iterations bounds the rewriting of every document
	Iterations int `env:"LINN_ITERATIONS" envDefault:"15"`

	// Seed of the random source, zero picks one from the clock
	Seed int64 `env:"LINN_SEED" envDefault:"0"`

	// LogLevel accepts the names slog understands, such as debug or warn+2
	LogLevel  slog.Level `env:"LINN_LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LINN_LOG_FORMAT" envDefault:"text"`

	// PrintTurtle writes every turtle position next to the results
	PrintTurtle bool `env:"LINN_PRINT_TURTLE" envDefault:"false"`
}

// Load parses the environment and checks the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	if cfg.Iterations < 0 {
		return nil, errors.Errorf("LINN_ITERATIONS must not be negative, got %d", cfg.Iterations)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, errors.Errorf("LINN_LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	return &cfg, nil
}

// NewLogger creates a logger writing to w at the configured level and format.
func (cfg *Config) NewLogger(w io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}
