package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digitask/internal/config"
	"digitask/internal/infra"
	"digitask/internal/repository"
	"digitask/internal/router"
	"digitask/internal/service"
	"digitask/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// Console logging in development, JSON in production
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := worker.NewDispatcher(rdb)

	mailer := infra.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.AlertMailTo)
	pool := worker.NewPool(rdb, mailer, cfg.WorkerPoolSize)
	pool.Start(ctx)

	r := router.New(cfg, db, rdb, dispatcher)

	// Purges are idempotent, so this tracking service instance can safely
	// coexist with the one the router wires for the HTTP layer.
	trackingSvc := service.NewTrackingService(
		repository.NewTrackingRepository(db),
		repository.NewWarehouseRepository(db),
		dispatcher,
	)
	cron := worker.NewCleanupCron(
		trackingSvc,
		time.Duration(cfg.CleanupIntervalHours)*time.Hour,
		time.Duration(cfg.HistoryRetentionDays)*24*time.Hour,
	)
	cron.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	pool.Wait()
	log.Info().Msg("bye")
}
