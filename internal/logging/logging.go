// Package logging builds the zerolog loggers used across the harness:
// console output for interactive runs, JSON for captures, and per-match
// file sinks for debug diagnostics.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures zerolog with pretty console output
func Setup(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// File returns a structured logger writing to path and a close function.
// Used for per-seat diagnostics when match debugging is on.
func File(path string) (zerolog.Logger, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return zerolog.New(f).With().Timestamp().Logger(), f.Close, nil
}

// SetupStructured configures zerolog for structured (JSON) output
func SetupStructured(debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}
