package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Environment namespaces every persisted object key ("dev" =>
	// bookmarks-dev/...) so deployments never collide in one bucket.
	Environment string

	PageSize     int           // bookmarks per persisted page
	MinBookmarks int           // refuse to persist a fetch below this count
	LockTTL      time.Duration // refresh lease lifetime

	RefreshInterval time.Duration // scheduled refresh period
	RefreshJitter   time.Duration // random delay added before scheduled runs

	CacheSuccessTTL time.Duration // memory cache TTL for confirmed results
	CacheFailureTTL time.Duration // memory cache TTL for confirmed failures

	AdminToken string // bearer token for the admin endpoints

	// Fetch source
	Source          string        // "raindrop" | "file"
	RaindropBaseURL string        // override for testing, default public API
	RaindropToken   string        // required when Source == "raindrop"
	BookmarkFile    string        // required when Source == "file"
	FetchTimeout    time.Duration // per-request timeout for the raindrop client

	// Object storage
	StorageBackend string // "s3" | "memory"
	S3Endpoint     string // optional, for MinIO/R2-style stores
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string

	// Render cache (optional; empty RedisAddr disables the purge hook)
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	RedisDialTimeout    time.Duration
	RedisConnectTimeout time.Duration
	RedisRetryInterval  time.Duration
	RedisMaxWait        time.Duration
	RedisPingTimeout    time.Duration
	RenderCachePrefix   string
}

func Load() *Config {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SHELF_PRETTY_LOG", true),

		// Engine
		Environment:  getenv("SHELF_ENVIRONMENT", "dev"),
		PageSize:     getenvInt("SHELF_PAGE_SIZE", 24),
		MinBookmarks: requireEnvInt("SHELF_MIN_BOOKMARKS"),
		LockTTL:      mustDuration("SHELF_LOCK_TTL", 2*time.Minute),

		RefreshInterval: mustDuration("SHELF_REFRESH_INTERVAL", 6*time.Hour),
		RefreshJitter:   mustDuration("SHELF_REFRESH_JITTER", 30*time.Minute),

		CacheSuccessTTL: mustDuration("SHELF_CACHE_SUCCESS_TTL", time.Hour),
		CacheFailureTTL: mustDuration("SHELF_CACHE_FAILURE_TTL", 5*time.Minute),

		AdminToken: requireEnv("SHELF_ADMIN_TOKEN"),

		// Fetch source
		Source:          getenv("SHELF_SOURCE", "raindrop"),
		RaindropBaseURL: getenv("SHELF_RAINDROP_BASE_URL", ""),
		RaindropToken:   getenv("SHELF_RAINDROP_TOKEN", ""),
		BookmarkFile:    getenv("SHELF_BOOKMARK_FILE", ""),
		FetchTimeout:    mustDuration("SHELF_FETCH_TIMEOUT", 30*time.Second),

		// Object storage
		StorageBackend: getenv("SHELF_STORAGE_BACKEND", "s3"),
		S3Endpoint:     getenv("SHELF_S3_ENDPOINT", ""),
		S3Region:       getenv("SHELF_S3_REGION", "us-east-1"),
		S3Bucket:       getenv("SHELF_S3_BUCKET", ""),
		S3AccessKey:    getenv("SHELF_S3_ACCESS_KEY", ""),
		S3SecretKey:    getenv("SHELF_S3_SECRET_KEY", ""),

		// Render cache
		RedisAddr:           getenv("SHELF_REDIS_ADDR", ""),
		RedisPassword:       getenv("SHELF_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SHELF_REDIS_DB", 0),
		RedisDialTimeout:    mustDuration("SHELF_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisConnectTimeout: mustDuration("SHELF_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("SHELF_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("SHELF_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("SHELF_REDIS_PING_TIMEOUT", 5*time.Second),
		RenderCachePrefix:   getenv("SHELF_RENDER_CACHE_PREFIX", ""),
	}

	switch cfg.Source {
	case "raindrop":
		if cfg.RaindropToken == "" {
			panic("❌ FATAL: SHELF_RAINDROP_TOKEN is required when SHELF_SOURCE=raindrop")
		}
	case "file":
		if cfg.BookmarkFile == "" {
			panic("❌ FATAL: SHELF_BOOKMARK_FILE is required when SHELF_SOURCE=file")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown SHELF_SOURCE %q (want raindrop or file)", cfg.Source))
	}

	switch cfg.StorageBackend {
	case "s3":
		if cfg.S3Bucket == "" {
			panic("❌ FATAL: SHELF_S3_BUCKET is required when SHELF_STORAGE_BACKEND=s3")
		}
	case "memory":
		// Nothing persisted beyond process lifetime; dev only.
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown SHELF_STORAGE_BACKEND %q (want s3 or memory)", cfg.StorageBackend))
	}

	if cfg.PageSize <= 0 {
		panic(fmt.Sprintf("❌ FATAL: SHELF_PAGE_SIZE must be > 0, got %d", cfg.PageSize))
	}
	if cfg.MinBookmarks < 0 {
		panic(fmt.Sprintf("❌ FATAL: SHELF_MIN_BOOKMARKS must be >= 0, got %d", cfg.MinBookmarks))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.AdminToken = "***REDACTED***"
		cfgCopy.RaindropToken = "***REDACTED***"
		cfgCopy.S3SecretKey = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
