package logger

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init installs a text handler on stderr as the default slog logger, so
// command output on stdout stays clean.
func Init(debug bool) {
	InitWriter(os.Stderr, debug)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
}

func get() *slog.Logger {
	if Logger == nil {
		return slog.Default()
	}
	return Logger
}

func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

func Error(msg string, args ...any) {
	get().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	get().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}
