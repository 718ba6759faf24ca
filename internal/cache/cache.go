// Package cache implements the time-bounded spatial cache keyed by bounding
// box, buffer distance and filter preset.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fxi/geodrink/internal/types"
)

const (
	// Namespace prefixes every key this cache writes, isolating its
	// entries from unrelated state in a shared store.
	Namespace = "geodrink:"

	// DefaultTTL is how long an entry stays valid after it is stored.
	DefaultTTL = time.Hour
)

// Key derives the cache key for a query. Bounds are rounded to 4 decimal
// degrees (~11 m), so calls for practically the same extent collide on
// purpose.
func Key(bounds types.BoundingBox, bufferMeters float64, filterID string) string {
	return fmt.Sprintf("%.4f,%.4f,%.4f,%.4f|%.0f|%s",
		bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon,
		bufferMeters, filterID)
}

// Entry is the stored envelope around a cached result.
type Entry struct {
	Points   []types.WaterPoint `json:"points"`
	StoredAt time.Time          `json:"stored_at"`
	Bounds   types.BoundingBox  `json:"bounds"`
	Buffer   float64            `json:"buffer"`
}

// Info summarizes the cache contents for display.
type Info struct {
	Entries   int   `json:"entries"`
	TotalSize int64 `json:"total_size_bytes"`
}

// Cache stores filtered query results in a Store with lazy TTL expiry.
// Storage errors are swallowed and degrade to cache misses; the cache never
// fails a query.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache on top of the given store.
func New(store Store, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached points for key, or ok=false when the entry is
// absent, expired or unreadable. An expired entry is deleted as a side
// effect.
func (c *Cache) Get(ctx context.Context, key string) ([]types.WaterPoint, bool) {
	raw, err := c.store.Get(ctx, Namespace+key)
	if err != nil {
		if err != ErrNotFound {
			c.logger.Debug("cache read failed, treating as miss", "key", key, "error", err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Debug("corrupt cache entry, treating as miss", "key", key, "error", err)
		_ = c.store.Delete(ctx, Namespace+key)
		return nil, false
	}

	if c.now().Sub(entry.StoredAt) > c.ttl {
		_ = c.store.Delete(ctx, Namespace+key)
		return nil, false
	}

	return entry.Points, true
}

// Set stores points under key, overwriting unconditionally and stamping the
// current time. Failures are logged and ignored.
func (c *Cache) Set(ctx context.Context, key string, points []types.WaterPoint, bounds types.BoundingBox, bufferMeters float64) {
	entry := Entry{
		Points:   points,
		StoredAt: c.now(),
		Bounds:   bounds,
		Buffer:   bufferMeters,
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Debug("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, Namespace+key, string(raw)); err != nil {
		c.logger.Debug("cache write failed", "key", key, "error", err)
	}
}

// Clear removes every entry under the cache namespace, leaving unrelated
// keys in the store untouched.
func (c *Cache) Clear(ctx context.Context) {
	keys, err := c.store.Keys(ctx, Namespace)
	if err != nil {
		c.logger.Debug("cache enumerate failed", "error", err)
		return
	}
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			c.logger.Debug("cache delete failed", "key", k, "error", err)
		}
	}
}

// Stats reports entry count and total serialized size of namespaced entries.
// Display only; failures yield a zero Info.
func (c *Cache) Stats(ctx context.Context) Info {
	keys, err := c.store.Keys(ctx, Namespace)
	if err != nil {
		c.logger.Debug("cache enumerate failed", "error", err)
		return Info{}
	}

	var info Info
	for _, k := range keys {
		raw, err := c.store.Get(ctx, k)
		if err != nil {
			continue
		}
		info.Entries++
		info.TotalSize += int64(len(raw))
	}
	return info
}
