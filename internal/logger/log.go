package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"stress-index/internal/config"

	"gopkg.in/lumberjack.v2"
)

// Service is attached to every record written after Init.
const Service = "stress-index"

// Init installs the default slog logger. component names the binary
// (server, sweep, catalog_init) so records from the daily sweep and the
// API can be told apart in a shared log file.
func Init(cfg config.LogConfig, component string) {
	h := slog.NewJSONHandler(output(cfg), &slog.HandlerOptions{Level: parseLevel(cfg.Level)})
	slog.SetDefault(slog.New(h).With("service", Service, "component", component))
	Info("logger initialized", "level", cfg.Level, "file", cfg.File)
}

func output(cfg config.LogConfig) io.Writer {
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	switch len(writers) {
	case 0:
		return os.Stdout
	case 1:
		return writers[0]
	}
	return io.MultiWriter(writers...)
}

// ForUser returns the default logger tagged with the user being scored.
func ForUser(uid string) *slog.Logger { return slog.Default().With("uid", uid) }

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
