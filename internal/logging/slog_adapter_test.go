// Animerec - Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSlogHandlerAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewSlogHandler(NewTestLogger(&buf)))

	logger.With("supervisor", "root").
		WithGroup("service").
		Info("restarting",
			"name", "history-writer",
			"attempt", 2,
			"backoff", 5*time.Second,
			"err", errors.New("queue closed"),
		)

	out := buf.String()
	for _, want := range []string{
		`"message":"restarting"`,
		`"supervisor":"root"`,
		`"service.name":"history-writer"`,
		`"service.attempt":2`,
		`"queue closed"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlogHandlerEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewSlogHandler(NewTestLogger(&buf).Level(zerolog.WarnLevel))
	if h.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("info should be disabled on a warn logger")
	}
	if !h.Enabled(t.Context(), slog.LevelError) {
		t.Error("error should be enabled on a warn logger")
	}
}
