// Package logging wires the process-wide slog logger.
//
// Records are written as JSON to a rotating file and, when enabled, as
// human-readable lines to the console.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/tartampluch/go-countday/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the logger sinks.
type Options struct {
	// Debug lowers the level to debug and records the call site.
	Debug bool

	// Dir is the log directory. Empty means the user cache dir.
	Dir string

	// Console is the human-readable sink. Nil disables console output,
	// which the full-screen terminal UI requires.
	Console io.Writer
}

// Setup installs the default slog logger and returns the log file closer.
func Setup(opts Options) (io.Closer, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	path, err := FilePath(opts.Dir)
	if err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
		MaxAge:     config.LogMaxAgeDays,
		Compress:   true,
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level:     level,
			AddSource: opts.Debug,
		}),
	}
	if opts.Console != nil {
		handlers = append(handlers, NewConsoleHandler(opts.Console, opts.Debug))
	}

	slog.SetDefault(slog.New(fanout(handlers)))
	return file, nil
}

// NewConsoleHandler returns a charmbracelet/log handler for terminal output.
func NewConsoleHandler(w io.Writer, debug bool) slog.Handler {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          config.LogPrefix,
	})
}

// FilePath returns the log file location, creating its directory with restricted permissions.
func FilePath(dir string) (string, error) {
	if dir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
		}
		dir = filepath.Join(cacheDir, config.AppID)
	}

	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(dir, config.LogFileName), nil
}

// fanout dispatches every record to each handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
