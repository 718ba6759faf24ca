// Package datasource fetches raw water-source records from the Overpass API.
package datasource

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/MeKo-Christian/go-overpass"
	"github.com/paulmach/orb"

	"github.com/fxi/geodrink/internal/filter"
	"github.com/fxi/geodrink/internal/types"
)

// DefaultEndpoint is the public Overpass API interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// queryTimeoutSeconds is the server-side timeout for one query.
const queryTimeoutSeconds = 30

// OverpassDataSource fetches water-related OSM nodes from the Overpass API.
type OverpassDataSource struct {
	client overpass.Client
}

// NewOverpassDataSource creates a data source against the given endpoint,
// or the public interpreter when empty.
func NewOverpassDataSource(endpoint string) *OverpassDataSource {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	// Rate limited to 1 concurrent request (API etiquette).
	client := overpass.NewWithSettings(
		endpoint,
		1,
		&http.Client{Timeout: queryTimeoutSeconds * time.Second},
	)

	return &OverpassDataSource{client: client}
}

// FetchWaterSources queries the API for water-related nodes inside bounds
// and returns them as raw records. The preset only narrows which tag
// categories are requested; all filtering happens downstream.
func (ds *OverpassDataSource) FetchWaterSources(ctx context.Context, bounds types.BoundingBox, preset filter.Preset) ([]types.RawRecord, error) {
	query := BuildQuery(bounds, preset)

	// The client does not take a context; the HTTP client's timeout bounds
	// the request instead.
	result, err := ds.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass query failed: %w", err)
	}

	return RecordsFromResult(&result), nil
}

// BuildQuery creates the Overpass QL query for water sources inside bounds.
// A potable-only preset narrows the query to drinking-water amenities for
// efficiency; otherwise every water-related tag category is requested.
func BuildQuery(bounds types.BoundingBox, preset filter.Preset) string {
	bbox := fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", bounds.MinLat, bounds.MinLon, bounds.MaxLat, bounds.MaxLon)

	var selectors []string
	if preset.PotableOnly {
		selectors = []string{
			fmt.Sprintf(`node["amenity"="drinking_water"](%s);`, bbox),
			fmt.Sprintf(`node["drinking_water"="yes"](%s);`, bbox),
		}
	} else {
		selectors = []string{
			fmt.Sprintf(`node["amenity"="drinking_water"](%s);`, bbox),
			fmt.Sprintf(`node["amenity"="fountain"](%s);`, bbox),
			fmt.Sprintf(`node["amenity"="water_point"](%s);`, bbox),
			fmt.Sprintf(`node["amenity"="water_tap"](%s);`, bbox),
			fmt.Sprintf(`node["man_made"="water_well"](%s);`, bbox),
			fmt.Sprintf(`node["natural"="spring"](%s);`, bbox),
		}
	}

	return fmt.Sprintf("[out:json][timeout:%d];\n(\n  %s\n);\nout body;\n",
		queryTimeoutSeconds, strings.Join(selectors, "\n  "))
}

// RecordsFromResult converts the nodes of an Overpass result to raw records.
// Ways and relations are ignored; water sources are point features.
func RecordsFromResult(result *overpass.Result) []types.RawRecord {
	if result == nil {
		return nil
	}

	records := make([]types.RawRecord, 0, len(result.Nodes))
	for id, node := range result.Nodes {
		if node == nil {
			continue
		}
		tags := node.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		records = append(records, types.RawRecord{
			ID:       fmt.Sprintf("node/%d", id),
			Location: orb.Point{node.Lon, node.Lat},
			Tags:     tags,
		})
	}

	// Map iteration order is random; keep output deterministic.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}
