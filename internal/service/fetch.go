package service

import (
	"context"
	"encoding/json"
	"fmt"

	"femilyship-web/internal/cache"
	"femilyship-web/internal/logger"
)

// Cache keys.
const topicsKey = "topics"

func topicKey(id int64) string { return fmt.Sprintf("topic:%d", id) }
func essayKey(id int64) string { return fmt.Sprintf("essay:%d", id) }

// fetchCached serves key from c when possible and otherwise calls fetch,
// storing the result unless a later-issued fetch of the same key got there first.
// A nil cache always fetches.
func fetchCached[T any](ctx context.Context, c *cache.Cache, log logger.Logger, key string, fetch func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return fetch(ctx)
	}

	if b, ok := c.Get(key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, nil
		}
		c.Delete(key)
	}

	ticket := c.Begin(key)
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		log.Error(err, fmt.Sprintf("Failed to encode %s for caching", key))
		return v, nil
	}
	if !c.Commit(ticket, b) && !c.Latest(ticket) {
		log.Debug(fmt.Sprintf("Dropped stale response for %s", key))
	}
	return v, nil
}

// invalidate removes keys from c.
func invalidate(c *cache.Cache, keys ...string) {
	if c == nil {
		return
	}
	for _, key := range keys {
		c.Delete(key)
	}
}
