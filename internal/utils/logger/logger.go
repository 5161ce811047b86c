package logger

import (
	"os"

	"golang.org/x/exp/slog"
	"timekeeper/internal/app/server/config"
	"timekeeper/internal/utils/logger/slogpretty"
)

// New создает логгер в зависимости от окружения:
// local - DEBUG с цветным выводом, dev - DEBUG в JSON, prod - INFO в JSON.
func New(env string) *slog.Logger {
	switch env {
	case config.EnvLocal:
		return setupPrettySlog()
	case config.EnvDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug},
	}

	return slog.New(opts.NewPrettyHandler(os.Stdout))
}
