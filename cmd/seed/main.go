package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"travel/config"
	"travel/di"
	"travel/internal/seed"
	"travel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	opts := seed.DefaultOptions()

	flag.IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	flag.IntVar(&opts.Listings, "listings", opts.Listings, "Number of listings to create")
	flag.IntVar(&opts.Bookings, "bookings", opts.Bookings, "Number of bookings to create")
	flag.IntVar(&opts.Reviews, "reviews", opts.Reviews, "Number of reviews to create")
	flag.BoolVar(&opts.Clear, "clear", false, "Clear existing data before seeding")
	flag.Uint64Var(&opts.Seed, "seed", 0, "Random seed, 0 for a random run")
	flag.Parse()

	cfg := config.Get()

	logger.Init(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := di.InitializeSeeder().Run(ctx, opts); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
}
