package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"underlog/internal/infra/logging"
)

// PDFCache stores rendered documents in Redis keyed by a hash of the source
// text. Rendering shells out to external tools, so a hit skips the whole
// pipeline. A nil client or disabled cache degrades to a no-op.
type PDFCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	enabled bool
}

// NewPDFCache builds a cache. ttl values <= 0 fall back to one minute.
func NewPDFCache(rdb *redis.Client, enabled bool, ttl time.Duration) *PDFCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &PDFCache{rdb: rdb, ttl: ttl, enabled: enabled}
}

// Key derives the cache key for one render input.
func Key(input string) string {
	sum := sha256.Sum256([]byte(input))
	return "pdfcache:" + hex.EncodeToString(sum[:])
}

// Get returns the cached document and true on a hit. Redis failures are
// logged and treated as misses.
func (c *PDFCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || !c.enabled || c.rdb == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logging.Warn("Redis read failed", "error", err)
		return nil, false
	}
	logging.Info("PDF cache hit", "key", key)
	return data, true
}

// Set stores a rendered document. Write failures are logged, never
// propagated.
func (c *PDFCache) Set(ctx context.Context, key string, data []byte) {
	if c == nil || !c.enabled || c.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logging.Warn("Redis write failed", "error", err)
	}
}
