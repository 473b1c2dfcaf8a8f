package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/linkshelf/shelf/internal/cache"
	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/httpserver/deps"
	"github.com/linkshelf/shelf/internal/logger"
)

type clearCacheResponse struct {
	Status  string `json:"status"`
	Deleted int    `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// ClearCache deletes every persisted bookmark object for this
// environment and flushes the memory cache, which in turn signals the
// downstream render cache. The next refresh rebuilds everything.
func ClearCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		deleted, err := d.Store.Clear(r.Context())
		if err != nil {
			d.Logger.Error("cache clear failed",
				logger.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(clearCacheResponse{Status: "error", Error: err.Error()})
			return
		}

		d.Cache.FlushAll(r.Context())

		d.Logger.Info("bookmark cache cleared",
			logger.Int("objects_deleted", deleted))
		_ = json.NewEncoder(w).Encode(clearCacheResponse{Status: "ok", Deleted: deleted})
	}
}

type cacheStatusResponse struct {
	Index  *domain.Index `json:"index"`
	Memory cache.Stats   `json:"memory"`
}

// CacheStatus reports the persisted index (nil before the first
// successful refresh) and the memory cache counters.
func CacheStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		idx, err := d.Store.ReadIndex(r.Context())
		if err != nil {
			d.Logger.Error("cache status read failed",
				logger.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		_ = json.NewEncoder(w).Encode(cacheStatusResponse{
			Index:  idx,
			Memory: d.Cache.Stats(),
		})
	}
}
