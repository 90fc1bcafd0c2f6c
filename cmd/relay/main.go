package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"

	"github.com/adilakhmetov/notify-relay/internal/api/handlers/notification"
	"github.com/adilakhmetov/notify-relay/internal/api/router"
	"github.com/adilakhmetov/notify-relay/internal/api/server"
	"github.com/adilakhmetov/notify-relay/internal/config"
	"github.com/adilakhmetov/notify-relay/internal/mailbox"
	notifsvc "github.com/adilakhmetov/notify-relay/internal/service/notification"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	_ = godotenv.Load()
	cfg := config.Must()
	val := validator.New()

	box := mailbox.New()
	service := notifsvc.NewService(box)
	handler := notification.NewHandler(service, val)

	r := router.New(handler, cfg.Server.Token)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.HTTPPort).Msg("relay listening")

		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// Pending records are process memory only; whatever was not drained
	// is gone with the process.
	if n := box.Len(); n > 0 {
		zlog.Logger.Warn().Int("pending", n).Msg("discarding undelivered notifications")
	}
}
