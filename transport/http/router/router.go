package router

import (
	"travel/internal/handlers/auth"
	"travel/internal/handlers/booking"
	"travel/internal/handlers/listing"
	"travel/internal/handlers/review"
	"travel/internal/handlers/user"
	"travel/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "travel/docs" // swagger spec
)

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Listing listing.Handler
	Booking booking.Handler
	Review  review.Handler
}

type Middlewares struct {
	App      middleware.AppMiddleware
	AuthRole middleware.AuthRole
}

type Router struct {
	DomainHandlers DomainHandlers
	Middlewares    Middlewares
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.Recoverer,
		r.Middlewares.App.CORS(),
		r.Middlewares.App.Tracing,
		r.Middlewares.App.RateLimit(),
	)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(
			r.Middlewares.AuthRole.APIKey,
			r.Middlewares.AuthRole.Auth,
			r.Middlewares.AuthRole.RBAC,
		)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Listing.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middlewares Middlewares) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middlewares:    middlewares,
	}
}
