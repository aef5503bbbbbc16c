// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where and how much is logged
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Empty means info.
	Level string
	// File, when set, receives the logs instead of stderr. Used while the
	// chat TUI owns the terminal.
	File string
	// Console selects the human readable console writer for stderr output.
	Console bool
	// WithCaller adds file:line to every event.
	WithCaller bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel converts a level name into a zerolog level, defaulting to info
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.TrimSpace(strings.ToLower(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if l == zerolog.NoLevel {
		return zerolog.InfoLevel, nil
	}
	return l, nil
}

// Setup installs the global logger. The returned closer releases the log
// file, if one was opened.
func Setup(opts Options) (io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nopCloser{}, err
	}
	zerolog.SetGlobalLevel(level)

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	} else if opts.Console {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if opts.WithCaller {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	return closer, nil
}

// Discard silences the global logger (used by tests and raw output mode)
func Discard() {
	log.Logger = zerolog.Nop()
}
