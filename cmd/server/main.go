package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ertugrul2020/pos/internal/config"
	"github.com/Ertugrul2020/pos/internal/infra"
	"github.com/Ertugrul2020/pos/internal/router"
	"github.com/Ertugrul2020/pos/internal/service"
	"github.com/Ertugrul2020/pos/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	infra.Seed(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional for a single-register store. Without it the report
	// email is sent inline instead of through the queue.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		emailWorker := worker.NewEmailWorker(infra.NewMailer(cfg))
		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, emailWorker)
	}

	// Gemini is also optional; insights report as unavailable without a key.
	var generator service.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := infra.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("gemini client unavailable, insights disabled")
		} else {
			defer gemini.Close()
			generator = gemini
		}
	}

	r, reportSvc := router.New(cfg, db, rdb, generator)
	reportSvc.StartAutoPrompt(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("sayyad backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
