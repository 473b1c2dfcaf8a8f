package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linkshelf/shelf/internal/cache"
	"github.com/linkshelf/shelf/internal/config"
	"github.com/linkshelf/shelf/internal/httpserver"
	"github.com/linkshelf/shelf/internal/httpserver/deps"
	"github.com/linkshelf/shelf/internal/lock"
	"github.com/linkshelf/shelf/internal/logger"
	"github.com/linkshelf/shelf/internal/objstore"
	"github.com/linkshelf/shelf/internal/redis"
	"github.com/linkshelf/shelf/internal/refresh"
	"github.com/linkshelf/shelf/internal/rendercache"
	"github.com/linkshelf/shelf/internal/scheduler"
	"github.com/linkshelf/shelf/internal/sources/file"
	"github.com/linkshelf/shelf/internal/sources/raindrop"
	"github.com/linkshelf/shelf/internal/store"
	"github.com/linkshelf/shelf/internal/version"
)

// App owns every long-lived component. All of them are constructed
// here and injected explicitly; nothing initializes itself on import.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	backend     objstore.Backend
	redisClient *goredis.Client
	refresher   *scheduler.Refresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	ctx := context.Background()

	backend := newBackend(ctx, cfg, loggerClient)
	keys := store.NewKeys(cfg.Environment)
	bookmarkStore := store.New(backend, keys, cfg.PageSize, loggerClient)

	memCache := cache.New(cfg.CacheSuccessTTL, cfg.CacheFailureTTL, loggerClient)

	// Downstream render-cache purge is optional; without Redis the
	// flush hooks simply stay empty.
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		purger := rendercache.New(redisClient, cfg.RenderCachePrefix, loggerClient)
		memCache.OnFlush(purger.Purge)
		loggerClient.Info("render cache purge enabled",
			logger.String("addr", cfg.RedisAddr))
	} else {
		loggerClient.Info("redis not configured, render cache purge disabled")
	}

	fetch := newFetchFunc(cfg, loggerClient)

	lockCoordinator := lock.New(backend, keys.Lock(), cfg.LockTTL, loggerClient)
	orchestrator := refresh.New(
		lockCoordinator,
		bookmarkStore,
		fetch,
		memCache,
		cfg.MinBookmarks,
		loggerClient,
	)

	refreshTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewRefresher(
		orchestrator,
		loggerClient,
		cfg.RefreshInterval,
		cfg.RefreshJitter,
		refreshTrigger,
	)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AdminToken:     cfg.AdminToken,
		Store:          bookmarkStore,
		Cache:          memCache,
		Orchestrator:   orchestrator,
		RefreshTrigger: refreshTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		backend:     backend,
		redisClient: redisClient,
		refresher:   refresher,
	}
}

func newBackend(ctx context.Context, cfg *config.Config, log logger.Logger) objstore.Backend {
	if cfg.StorageBackend == "memory" {
		log.Warn("using in-memory object storage, nothing will be persisted")
		return objstore.NewMemory()
	}

	backend, err := objstore.NewS3(ctx, objstore.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		log.Errorf("Failed to initialize object storage: %v", err)
		os.Exit(1)
	}
	log.Info("object storage initialized",
		logger.String("bucket", cfg.S3Bucket))
	return backend
}

func newFetchFunc(cfg *config.Config, log logger.Logger) refresh.FetchFunc {
	if cfg.Source == "file" {
		log.Info("using file bookmark source",
			logger.String("file", cfg.BookmarkFile))
		return file.NewLoader(cfg.BookmarkFile).Fetch
	}
	log.Info("using raindrop bookmark source")
	return raindrop.NewClient(cfg.RaindropBaseURL, cfg.RaindropToken, cfg.FetchTimeout, log).Fetch
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Shelf v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Shelf %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.refresher.Start(ctx)
	a.logger.Info("refresh scheduler started",
		logger.Duration("interval", a.cfg.RefreshInterval),
		logger.Duration("jitter", a.cfg.RefreshJitter))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		}
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Warnf("failed to close object storage: %v", err)
	}

	a.logger.Info("✅ Shelf stopped cleanly")
	return nil
}
