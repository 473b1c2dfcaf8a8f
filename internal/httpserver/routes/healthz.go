package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkshelf/shelf/internal/httpserver/deps"
	"github.com/linkshelf/shelf/internal/httpserver/handlers"
	"github.com/linkshelf/shelf/internal/metrics"
)

func init() { Register(registerHealthz) }

func registerHealthz(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Method("GET", "/metrics", metrics.Handler())
}
