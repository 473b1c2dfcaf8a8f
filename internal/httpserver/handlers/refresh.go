package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/linkshelf/shelf/internal/httpserver/deps"
	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/refresh"
)

type refreshResponse struct {
	Status          string     `json:"status"`
	Count           int        `json:"count,omitempty"`
	TotalPages      int        `json:"totalPages,omitempty"`
	ChangeDetected  bool       `json:"changeDetected"`
	Checksum        string     `json:"checksum,omitempty"`
	LastFetchedAt   *time.Time `json:"lastFetchedAt,omitempty"`
	LastAttemptedAt *time.Time `json:"lastAttemptedAt,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// Refresh runs a refresh cycle and reports the outcome with counts and
// timestamps. With ?async=true it only nudges the scheduler's manual
// trigger and returns immediately.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("async") == "true" {
			select {
			case d.RefreshTrigger <- struct{}{}:
			default:
				// A trigger is already pending; the scheduler will run soon.
			}
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(refreshResponse{Status: "scheduled"})
			return
		}

		idx, err := d.Orchestrator.RefreshAndPersist(r.Context())
		switch {
		case err != nil:
			d.Logger.Error("admin-triggered refresh failed",
				logger.Error(err))
			status := http.StatusInternalServerError
			if errors.Is(err, refresh.ErrTooFewBookmarks) {
				status = http.StatusBadGateway
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(refreshResponse{
				Status: "error",
				Error:  err.Error(),
			})

		case idx == nil:
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(refreshResponse{
				Status: "skipped",
				Error:  "another refresh is already in progress",
			})

		default:
			_ = json.NewEncoder(w).Encode(refreshResponse{
				Status:          "ok",
				Count:           idx.Count,
				TotalPages:      idx.TotalPages,
				ChangeDetected:  idx.ChangeDetected,
				Checksum:        idx.Checksum,
				LastFetchedAt:   &idx.LastFetchedAt,
				LastAttemptedAt: &idx.LastAttemptedAt,
			})
		}
	}
}
