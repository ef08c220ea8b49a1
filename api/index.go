package handler

import (
	"net/http"
	"sync"

	"travel/config"
	"travel/di"
	"travel/shared/logger"
)

// service is built on the first invocation and reused while the function instance stays warm.
var service = sync.OnceValue(func() http.Handler {
	cfg := config.Get()
	logger.Init(cfg)

	return di.InitializeService()
})

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	service().ServeHTTP(w, r)
}
