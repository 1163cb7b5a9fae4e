package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"speech-coach-go/internal/analyzer"
	"speech-coach-go/internal/config"
	"speech-coach-go/internal/gemini"
	"speech-coach-go/internal/logger"
	"speech-coach-go/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("failed to load configuration")
	}

	log := logger.NewWithOptions(cfg.Environment, cfg.LogLevel, os.Stdout)
	log.WithField("model", cfg.Gemini.Model).Info("starting service")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		HTTPTimeout: cfg.Gemini.HTTPTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create Gemini client")
	}

	a := analyzer.New(client,
		analyzer.WithRetryPolicy(analyzer.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			MinDelay:    cfg.Retry.MinDelay,
			MaxDelay:    cfg.Retry.MaxDelay,
		}),
		analyzer.WithLogger(log.Entry),
	)

	if err := server.New(cfg, a, log).Run(ctx); err != nil {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("server stopped")
}
