package deps

import (
	"time"

	"github.com/linkshelf/shelf/internal/cache"
	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/refresh"
	"github.com/linkshelf/shelf/internal/store"
)

// Deps carries the shared dependencies handed to route handlers.
type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AdminToken string // credential required on every admin endpoint

	Store        *store.Store
	Cache        *cache.Cache
	Orchestrator *refresh.Orchestrator

	RefreshTrigger chan struct{} // nudges the scheduler's manual trigger
}
