// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package logging builds the zerolog loggers used by the command line tools.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables that override the configured values.
const (
	EnvLogLevel     = "FUDI_LOG_LEVEL"
	EnvLogTimestamp = "FUDI_LOG_TIMESTAMP"
	EnvLogNoColor   = "FUDI_LOG_NOCOLOR"
)

// Config controls the console logger.
type Config struct {
	Level     string    // trace, debug, info, warn, error, disabled
	Timestamp bool      // include an RFC3339 timestamp
	NoColor   bool      // disable ANSI colors
	Out       io.Writer // defaults to os.Stderr
}

// DefaultConfig logs at info level with timestamps to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Timestamp: true,
	}
}

// New returns a console logger tagged with the application name.
// It does not read the environment; callers apply ApplyEnvOverrides
// before any overrides of their own.
func New(app string, cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	level, ok := ParseLevel(cfg.Level)
	if !ok {
		level = zerolog.InfoLevel
	}

	cw := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    cfg.NoColor,
	}
	if !cfg.Timestamp {
		cw.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(cw).Level(level).With().Str("app", app)
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// ApplyEnvOverrides replaces fields of cfg with any values set in the environment.
// Values that do not parse are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if raw := os.Getenv(EnvLogLevel); raw != "" {
		if _, ok := ParseLevel(raw); ok {
			cfg.Level = raw
		}
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level.
// It reports false for names it does not recognize.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
