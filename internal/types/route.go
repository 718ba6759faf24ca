package types

import "github.com/paulmach/orb"

// Route is a normalized polyline derived from an uploaded track.
// Coordinates are (lon, lat) pairs in document order. A Route is built once
// by the track parser and never mutated afterwards; loading a new track
// replaces it wholesale.
type Route struct {
	Name        string         // Optional display name from the track document
	Coordinates orb.LineString // At least one point
	Bounds      BoundingBox    // Tightest box containing all coordinates
	Length      float64        // Total length in meters (sum of segment lengths)
}

// Start returns the first coordinate of the route.
func (r *Route) Start() orb.Point {
	return r.Coordinates[0]
}

// CurrentPosition is a device location fix projected onto the active route.
type CurrentPosition struct {
	Location   orb.Point `json:"location"`    // (lon, lat)
	AlongRoute float64   `json:"along_route"` // Meters from route start
}
