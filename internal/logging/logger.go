// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level, encoding and destination of the global logger.
type Config struct {
	Level     string    // trace, debug, info, warn, error, fatal or disabled
	Format    string    // json or console
	Caller    bool      // add file:line
	Timestamp bool      // add a time field
	Output    io.Writer // os.Stderr when nil
}

// DefaultConfig is info level JSON with timestamps on stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// levels maps accepted names, including aliases, to zerolog levels.
var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"fatal":    zerolog.FatalLevel,
	"disabled": zerolog.Disabled,
	"off":      zerolog.Disabled,
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// parseLevel falls back to info for unknown names.
func parseLevel(level string) zerolog.Level {
	if l, ok := levels[normalizeLevel(level)]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// ValidLevel reports whether level names a known level or alias.
func ValidLevel(level string) bool {
	_, ok := levels[normalizeLevel(level)]
	return ok
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging must work before Init is called
func init() {
	Init(DefaultConfig())
}

// Init rebuilds the global logger from cfg. Safe to call more than once.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	SetLogger(ctx.Logger())
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// SetLogger replaces the global logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SetLogger(l zerolog.Logger) {
	global.Store(&l)
}

// WithComponent derives a logger tagged with a component field.
//
//	engineLogger := logging.WithComponent("recommend")
func WithComponent(component string) zerolog.Logger {
	return global.Load().With().Str("component", component).Logger()
}

// Debug starts a debug event on the global logger.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info event on the global logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warning event on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error event on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal event; the process exits after the write.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// Err starts an event carrying err: error level, or info when err is nil.
func Err(err error) *zerolog.Event { return global.Load().Err(err) }

// NewTestLogger builds a JSON logger on w for capturing output in tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
