package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"timekeeper/internal/app/server/api"
	"timekeeper/internal/app/server/config"
	"timekeeper/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	log.Info("запуск сервера",
		slog.String("address", cfg.Server.RunAddress),
		slog.String("upstream", cfg.Server.UpstreamURL),
	)

	server := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: api.New(cfg, log),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ошибка сервера", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("ошибка остановки сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
