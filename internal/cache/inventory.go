package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"imageboard/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	PostKeyPrefix      = "post:%d"
	PostsListKeyPrefix = "posts:list:%d:%d"
	TokenKeyPrefix     = "token:%s"
)

const (
	PostTTL      = 30 * time.Minute
	PostsListTTL = 1 * time.Minute
	TokenTTL     = 5 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostsListKey(limit, offset int) string {
	return fmt.Sprintf(PostsListKeyPrefix, limit, offset)
}

func TokenKey(key string) string {
	return fmt.Sprintf(TokenKeyPrefix, key)
}

// Aside implements the cache-aside pattern: return the cached JSON value for
// key if present, otherwise run fetch (which must populate dest) and store the
// result. With no Redis client configured it calls fetch directly.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	prefix := keyPrefix(key)
	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
			observability.CacheHits.WithLabelValues(prefix).Inc()
			return nil
		}
		// Corrupt entry; fall through to refetch and overwrite.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis unavailable mid-flight: serve from the source of truth.
		return fetch()
	}

	observability.CacheMisses.WithLabelValues(prefix).Inc()
	if err := fetch(); err != nil {
		return err
	}

	if encoded, marshalErr := json.Marshal(dest); marshalErr == nil {
		client.Set(ctx, key, encoded, ttl)
	}
	return nil
}

// Invalidate removes a single key. Safe to call with no client configured.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost removes the cached detail entry for a post.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePostsList removes every cached list page. List pages are keyed by
// limit/offset, so a SCAN over the shared prefix is required.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "posts:list:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// InvalidateToken removes a cached token resolution.
func InvalidateToken(ctx context.Context, key string) {
	Invalidate(ctx, TokenKey(key))
}

func keyPrefix(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
