package logger

import (
	"io"
	"log/slog"
	"os"
)

// New возвращает JSON-логгер бота с атрибутом service.
// В dev-окружении включен уровень debug.
func New(env string) *slog.Logger {
	return newLogger(env, os.Stdout)
}

func newLogger(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "komekbai-bot")
}
