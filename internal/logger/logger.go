// Package logger configures the application-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New builds a logger at the given level. When file is set, output goes
// there (the TUI owns the terminal, so on-screen logging is not an option);
// otherwise output is a console writer on stderr.
func New(level, file string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err == nil {
			if f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				out = f
			}
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Silent returns a logger that discards everything, for tests and for TUI
// sessions without a log file.
func Silent() zerolog.Logger {
	return zerolog.New(io.Discard)
}
