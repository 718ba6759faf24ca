package types

import "github.com/paulmach/orb"

// WaterPointType is the classified category of a water source.
type WaterPointType string

const (
	WaterPointFountain WaterPointType = "fountain"
	WaterPointWell     WaterPointType = "well"
	WaterPointSpring   WaterPointType = "spring"
	WaterPointTap      WaterPointType = "tap"
	WaterPointOther    WaterPointType = "other"
)

// RawRecord is a point record as delivered by the remote data source,
// before classification and filtering.
type RawRecord struct {
	ID       string            // Opaque, stable element ID (e.g. "node/12345")
	Location orb.Point         // (lon, lat)
	Tags     map[string]string // Source metadata (access, fee, drinking_water, name, ...)
}

// WaterPoint is an accepted water source positioned relative to the route.
type WaterPoint struct {
	ID                string            `json:"id"`
	Location          orb.Point         `json:"location"` // (lon, lat)
	Tags              map[string]string `json:"tags,omitempty"`
	Type              WaterPointType    `json:"type"`
	DistanceFromStart float64           `json:"distance_from_start"` // Meters, great-circle from the route's first coordinate
	DistanceFromRoute float64           `json:"distance_from_route"` // Meters, minimum distance to the route
}

// Name returns the point's name tag, or empty.
func (w WaterPoint) Name() string {
	return w.Tags["name"]
}
