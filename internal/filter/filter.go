// Package filter classifies raw water-source records and applies preset
// rules plus the route proximity buffer.
package filter

import (
	"github.com/fxi/geodrink/internal/geo"
	"github.com/fxi/geodrink/internal/types"
)

// Classify maps a record's tags to a water point type. The first matching
// rule wins.
func Classify(tags map[string]string) types.WaterPointType {
	switch {
	case tags["amenity"] == "drinking_water":
		return types.WaterPointFountain
	case tags["amenity"] == "fountain":
		return types.WaterPointFountain
	case tags["amenity"] == "water_point" || tags["amenity"] == "water_tap":
		return types.WaterPointTap
	case tags["man_made"] == "water_well":
		return types.WaterPointWell
	case tags["natural"] == "spring":
		return types.WaterPointSpring
	default:
		return types.WaterPointOther
	}
}

// Apply runs one raw record through the admission buffer and the preset's
// rules. It returns the classified water point and true on acceptance, or a
// zero point and false when the record is filtered out. Rejection is a
// normal outcome, not an error.
func Apply(rec types.RawRecord, route *types.Route, bufferMeters float64, preset Preset) (types.WaterPoint, bool) {
	distFromRoute := geo.MinDistanceFromRoute(rec.Location, route.Coordinates)
	if distFromRoute > bufferMeters {
		return types.WaterPoint{}, false
	}

	for _, rule := range preset.Excludes {
		if rec.Tags[rule.Key] == rule.Value {
			return types.WaterPoint{}, false
		}
	}

	if len(preset.Access) > 0 {
		if access, ok := rec.Tags["access"]; ok && !contains(preset.Access, access) {
			return types.WaterPoint{}, false
		}
	}

	if len(preset.Potability) > 0 {
		if potable, ok := rec.Tags["drinking_water"]; ok && !contains(preset.Potability, potable) {
			return types.WaterPoint{}, false
		}
	}

	kind := Classify(rec.Tags)
	if len(preset.Types) > 0 && !containsType(preset.Types, kind) {
		return types.WaterPoint{}, false
	}

	return types.WaterPoint{
		ID:                rec.ID,
		Location:          rec.Location,
		Tags:              rec.Tags,
		Type:              kind,
		DistanceFromStart: geo.Distance(route.Start(), rec.Location),
		DistanceFromRoute: distFromRoute,
	}, true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func containsType(values []types.WaterPointType, v types.WaterPointType) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
