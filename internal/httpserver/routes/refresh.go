package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkshelf/shelf/internal/httpserver/deps"
	"github.com/linkshelf/shelf/internal/httpserver/handlers"
	"github.com/linkshelf/shelf/internal/httpserver/mw"
)

func init() { Register(registerRefresh) }

func registerRefresh(r chi.Router, d deps.Deps) {
	r.With(mw.RequireToken(d.AdminToken, d.Logger)).Post("/api/refresh", handlers.Refresh(d))
}
