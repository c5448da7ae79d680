// Package config loads scenesync settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
)

// ColorMode selects when packet dumps are colored.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UnmarshalText accepts auto, always or never.
func (m *ColorMode) UnmarshalText(text []byte) error {
	switch v := ColorMode(text); v {
	case ColorAuto, ColorAlways, ColorNever:
		*m = v
		return nil
	default:
		return fmt.Errorf("invalid color mode %q", text)
	}
}

// Config holds the settings shared by scenesync tools.
type Config struct {
	// Transport names a registered channel transport. Empty picks the
	// highest-priority one.
	Transport   string     `env:"SCENESYNC_TRANSPORT" envDefault:"memory"`
	JournalPath string     `env:"SCENESYNC_JOURNAL_PATH" envDefault:"scenesync.db"`
	LogLevel    slog.Level `env:"SCENESYNC_LOG_LEVEL" envDefault:"WARN"`
	// Channels is the number of channels the demo mirrors the scene on.
	Channels   int       `env:"SCENESYNC_CHANNELS" envDefault:"1"`
	MaxHandles int       `env:"SCENESYNC_MAX_HANDLES" envDefault:"0"`
	Color      ColorMode `env:"SCENESYNC_COLOR" envDefault:"auto"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.Channels < 1 {
		errs = append(errs, fmt.Errorf("SCENESYNC_CHANNELS must be at least 1, got %d", c.Channels))
	}
	if c.MaxHandles < 0 {
		errs = append(errs, fmt.Errorf("SCENESYNC_MAX_HANDLES must not be negative, got %d", c.MaxHandles))
	}
	if c.Transport == "journal" && c.JournalPath == "" {
		errs = append(errs, errors.New("SCENESYNC_JOURNAL_PATH is required for the journal transport"))
	}
	return errors.Join(errs...)
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
