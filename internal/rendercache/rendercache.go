// Package rendercache invalidates the downstream page-render cache.
// Rendered pages live in Redis under a shared prefix, written by the
// presentation layer; this engine only ever purges them, after a
// bookmark cache clear or a refresh that changed the dataset.
package rendercache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/linkshelf/shelf/internal/logger"
)

// DefaultPrefix is where the presentation layer keeps rendered pages.
const DefaultPrefix = "render:bookmarks:"

type Purger struct {
	client *redis.Client
	prefix string
	logger logger.Logger
}

func New(client *redis.Client, prefix string, log logger.Logger) *Purger {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Purger{client: client, prefix: prefix, logger: log}
}

// Purge deletes every rendered page under the prefix.
func (p *Purger) Purge(ctx context.Context) error {
	deleted := 0
	iter := p.client.Scan(ctx, 0, p.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := p.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete render cache key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan render cache: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("purged render cache",
			logger.Int("keys", deleted))
	}
	return nil
}
