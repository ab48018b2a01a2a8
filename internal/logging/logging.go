// Package logging builds slog loggers for the client and the server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options describe logger output
type Options struct {
	// Level - debug, info, warn или error
	Level string
	// Format - text или json
	Format string
	// File включает запись в файл с ротацией, пустое значение - stderr
	File string
	// MaxSizeMB - размер файла до ротации
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is a slog.Logger with an adjustable level and an optional rotated file
type Logger struct {
	*slog.Logger
	level  *slog.LevelVar
	closer io.Closer
}

// ParseLevel converts a level name to slog.Level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// New creates a logger writing to stderr or to a lumberjack-rotated file
func New(opts Options) (*Logger, error) {
	return newLogger(opts, os.Stderr)
}

func newLogger(opts Options, fallback io.Writer) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(lvl)

	var (
		out    = fallback
		closer io.Closer
	)
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    valueOr(opts.MaxSizeMB, 10),
			MaxBackups: valueOr(opts.MaxBackups, 3),
			MaxAge:     valueOr(opts.MaxAgeDays, 28),
		}
		out = rotated
		closer = rotated
	}

	handlerOpts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	switch opts.Format {
	case "", "text":
		handler = slog.NewTextHandler(out, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(out, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return &Logger{
		Logger: slog.New(handler),
		level:  levelVar,
		closer: closer,
	}, nil
}

// SetLevel changes the level of an existing logger
func (l *Logger) SetLevel(name string) error {
	lvl, err := ParseLevel(name)
	if err != nil {
		return err
	}
	l.level.Set(lvl)
	return nil
}

// Level returns the current level
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Close closes the log file if one is used
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func valueOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
