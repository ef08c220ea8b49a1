package main

import (
	"context"
	"os/signal"
	"syscall"

	"travel/config"
	"travel/di"
	"travel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.Init(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := di.InitializeWorker()

	if err := consumer.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("event worker stopped")
	}

	log.Info().Msg("event worker shut down")
}
