// Package query composes the track, cache, remote source and filter into
// the water-point search.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/paulmach/orb"

	"github.com/fxi/geodrink/internal/cache"
	"github.com/fxi/geodrink/internal/filter"
	"github.com/fxi/geodrink/internal/geo"
	"github.com/fxi/geodrink/internal/types"
)

// Status is the terminal state of one query cycle.
type Status string

const (
	// StatusCached means the result came verbatim from the cache.
	StatusCached Status = "cached"
	// StatusFulfilled means a remote fetch succeeded and was filtered.
	StatusFulfilled Status = "fulfilled"
	// StatusFailed means the fetch failed; the result list is empty and the
	// returned error is a soft warning, not a fatal condition.
	StatusFailed Status = "failed"
)

// DataSource is the remote point-of-interest boundary.
type DataSource interface {
	FetchWaterSources(ctx context.Context, bounds types.BoundingBox, preset filter.Preset) ([]types.RawRecord, error)
}

// Service orchestrates cache-or-fetch water point queries against a route.
type Service struct {
	cache  *cache.Cache
	source DataSource
	logger *slog.Logger
}

// NewService wires a service from its collaborators.
func NewService(c *cache.Cache, source DataSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: c, source: source, logger: logger}
}

// FindWaterPoints returns the filtered, sorted water points for a route,
// buffer distance and filter preset. A transport failure yields an empty
// list, StatusFailed and a non-nil soft error; it never aborts the caller.
func (s *Service) FindWaterPoints(ctx context.Context, route *types.Route, bufferMeters float64, filterID string) ([]types.WaterPoint, Status, error) {
	preset, ok := filter.PresetByID(filterID)
	if !ok {
		return nil, StatusFailed, fmt.Errorf("unknown filter preset %q", filterID)
	}

	key := cache.Key(route.Bounds, bufferMeters, preset.ID)
	if points, hit := s.cache.Get(ctx, key); hit {
		s.logger.Debug("cache hit", "key", key, "points", len(points))
		return points, StatusCached, nil
	}

	padded := route.Bounds.ExpandByMeters(bufferMeters)

	start := time.Now()
	records, err := s.source.FetchWaterSources(ctx, padded, preset)
	if err != nil {
		s.logger.Warn("water source fetch failed",
			"bounds", padded.String(),
			"filter", preset.ID,
			"error", err,
		)
		return []types.WaterPoint{}, StatusFailed, fmt.Errorf("fetch water sources: %w", err)
	}

	points := make([]types.WaterPoint, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			continue
		}
		if wp, accepted := filter.Apply(rec, route, bufferMeters, preset); accepted {
			seen[rec.ID] = true
			points = append(points, wp)
		}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].DistanceFromStart < points[j].DistanceFromStart
	})

	s.cache.Set(ctx, key, points, route.Bounds, bufferMeters)

	s.logger.Info("water points fetched",
		"raw", len(records),
		"accepted", len(points),
		"filter", preset.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return points, StatusFulfilled, nil
}

// CurrentPositionOnRoute projects a raw location fix onto the route and
// returns it with its along-route distance. Returns nil when no usable route
// is loaded.
func (s *Service) CurrentPositionOnRoute(lat, lon float64, route *types.Route) *types.CurrentPosition {
	if route == nil || len(route.Coordinates) == 0 {
		return nil
	}
	p := orb.Point{lon, lat}
	return &types.CurrentPosition{
		Location:   p,
		AlongRoute: geo.DistanceAlongRoute(p, route.Coordinates),
	}
}

// ClearCache drops every cached result under this system's namespace.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

// CacheInfo reports cache entry count and byte size for display.
func (s *Service) CacheInfo(ctx context.Context) cache.Info {
	return s.cache.Stats(ctx)
}
