package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLevel slog.Level
		wantOK    bool
	}{
		{"debug lowercase", "debug", slog.LevelDebug, true},
		{"info lowercase", "info", slog.LevelInfo, true},
		{"warn lowercase", "warn", slog.LevelWarn, true},
		{"warning alias", "warning", slog.LevelWarn, true},
		{"error lowercase", "error", slog.LevelError, true},
		{"DEBUG uppercase", "DEBUG", slog.LevelDebug, true},
		{"Info mixed", "Info", slog.LevelInfo, true},
		{"padded", " error ", slog.LevelError, true},
		{"empty", "", DefaultLevel, false},
		{"invalid", "verbose", DefaultLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
