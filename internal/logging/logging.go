package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger
type Options struct {
	Level slog.Level

	// File receives JSON records in addition to the text stream. Empty
	// disables file logging.
	File string

	// Rotation limits for File
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultOptions returns text-only logging at DefaultLevel
func DefaultOptions() Options {
	return Options{
		Level:      DefaultLevel,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// Logger is a slog.Logger plus the file it may be writing to
type Logger struct {
	*slog.Logger
	file io.Closer
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New builds a logger writing text to w and, when opts.File is set,
// JSON to a size-rotated file.
func New(w io.Writer, opts Options) (*Logger, error) {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	text := slog.NewTextHandler(w, handlerOpts)

	if opts.File == "" {
		return &Logger{Logger: slog.New(text)}, nil
	}

	dir := filepath.Dir(opts.File)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q; %w", dir, err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	handler := slogmulti.Fanout(
		text,
		slog.NewJSONHandler(rotator, handlerOpts),
	)
	return &Logger{Logger: slog.New(handler), file: rotator}, nil
}
