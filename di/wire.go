//go:build wireinject
// +build wireinject

package di

import (
	"travel/config"
	"travel/infras/jwt"
	"travel/infras/kafka"
	"travel/infras/otel"
	"travel/infras/postgres"
	"travel/infras/redis"
	"travel/infras/s3"
	authService "travel/internal/domains/auth/service"
	bookingRepository "travel/internal/domains/booking/repository"
	bookingService "travel/internal/domains/booking/service"
	listingRepository "travel/internal/domains/listing/repository"
	listingService "travel/internal/domains/listing/service"
	reviewRepository "travel/internal/domains/review/repository"
	reviewService "travel/internal/domains/review/service"
	userRepository "travel/internal/domains/user/repository"
	userService "travel/internal/domains/user/service"
	"travel/internal/events"
	authHandler "travel/internal/handlers/auth"
	bookingHandler "travel/internal/handlers/booking"
	listingHandler "travel/internal/handlers/listing"
	reviewHandler "travel/internal/handlers/review"
	userHandler "travel/internal/handlers/user"
	"travel/internal/seed"
	"travel/permissions"
	"travel/shared/cache"
	"travel/transport/http"
	"travel/transport/http/middleware"
	"travel/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	postgres.NewTransaction,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
	wire.Struct(new(router.Middlewares), "*"),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewPublisher,
)

var repositories = wire.NewSet(
	userRepository.New,
	listingRepository.New,
	bookingRepository.New,
	reviewRepository.New,
)

var domains = wire.NewSet(
	authService.New,
	userService.New,
	listingService.New,
	bookingService.New,
	reviewService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	listingHandler.New,
	bookingHandler.New,
	reviewHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeWorker builds the event consumer that keeps cached listings fresh.
func InitializeWorker() *events.Consumer {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		s3.New,
		cache.NewRedisCache,
		userRepository.New,
		listingRepository.New,
		listingService.New,
		events.NewConsumer,
	)

	return &events.Consumer{}
}

// InitializeSeeder builds the sample data loader on top of the domain services.
func InitializeSeeder() *seed.Seeder {
	wire.Build(
		config.Get,
		infrastructures,
		sharedHelpers,
		repositories,
		authService.New,
		listingService.New,
		bookingService.New,
		reviewService.New,
		seed.New,
	)

	return &seed.Seeder{}
}
