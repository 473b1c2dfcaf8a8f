package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkshelf/shelf/internal/httpserver/deps"
	"github.com/linkshelf/shelf/internal/httpserver/handlers"
	"github.com/linkshelf/shelf/internal/httpserver/mw"
)

func init() { Register(registerCacheControl) }

func registerCacheControl(r chi.Router, d deps.Deps) {
	auth := mw.RequireToken(d.AdminToken, d.Logger)
	r.With(auth).Delete("/api/cache", handlers.ClearCache(d))
	r.With(auth).Get("/api/cache/status", handlers.CacheStatus(d))
}
