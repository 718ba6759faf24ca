// Package export serializes routes and water points for downstream
// consumers: GeoJSON for map renderers, CSV for offline use.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/fxi/geodrink/internal/types"
)

// WaterPointsToGeoJSON converts water points to a GeoJSON FeatureCollection.
// Each feature carries the source tags plus id, type and the two route-
// relative distances.
func WaterPointsToGeoJSON(points []types.WaterPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, wp := range points {
		f := geojson.NewFeature(wp.Location)
		if f.Properties == nil {
			f.Properties = make(map[string]interface{})
		}
		for k, v := range wp.Tags {
			f.Properties[k] = v
		}
		f.Properties["id"] = wp.ID
		f.Properties["water_type"] = string(wp.Type)
		f.Properties["distance_from_start"] = wp.DistanceFromStart
		f.Properties["distance_from_route"] = wp.DistanceFromRoute
		fc.Append(f)
	}

	return fc
}

// RouteToGeoJSON converts a route to a single-feature FeatureCollection
// carrying its name, length and bounds.
func RouteToGeoJSON(route *types.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if route == nil {
		return fc
	}

	f := geojson.NewFeature(route.Coordinates)
	if f.Properties == nil {
		f.Properties = make(map[string]interface{})
	}
	if route.Name != "" {
		f.Properties["name"] = route.Name
	}
	f.Properties["length_m"] = route.Length
	f.Properties["bounds"] = []float64{route.Bounds.MinLon, route.Bounds.MinLat, route.Bounds.MaxLon, route.Bounds.MaxLat}
	fc.Append(f)

	return fc
}

// WaterPointsToGeoJSONBytes renders points as indented GeoJSON.
func WaterPointsToGeoJSONBytes(points []types.WaterPoint) ([]byte, error) {
	data, err := json.MarshalIndent(WaterPointsToGeoJSON(points), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GeoJSON: %w", err)
	}
	return data, nil
}
