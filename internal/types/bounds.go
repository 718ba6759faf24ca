package types

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// MetersPerDegree is the fixed conversion used when padding a bounding box
// by a buffer distance. It is not geodesically exact but is close enough at
// buffer scales of a few hundred meters.
const MetersPerDegree = 111000.0

// BoundingBox represents a geographic bounding box in WGS84 (EPSG:4326)
type BoundingBox struct {
	MinLon float64 // Western edge (degrees)
	MinLat float64 // Southern edge (degrees)
	MaxLon float64 // Eastern edge (degrees)
	MaxLat float64 // Northern edge (degrees)
}

// NewBoundingBox returns a box collapsed onto a single point, ready to be
// grown with Extend.
func NewBoundingBox(p orb.Point) BoundingBox {
	return BoundingBox{
		MinLon: p.Lon(),
		MinLat: p.Lat(),
		MaxLon: p.Lon(),
		MaxLat: p.Lat(),
	}
}

// Extend grows the box to include p.
func (b BoundingBox) Extend(p orb.Point) BoundingBox {
	return BoundingBox{
		MinLon: math.Min(b.MinLon, p.Lon()),
		MinLat: math.Min(b.MinLat, p.Lat()),
		MaxLon: math.Max(b.MaxLon, p.Lon()),
		MaxLat: math.Max(b.MaxLat, p.Lat()),
	}
}

// ExpandByMeters pads the box on every side by the given distance converted
// to degrees with the fixed MetersPerDegree approximation.
func (b BoundingBox) ExpandByMeters(meters float64) BoundingBox {
	if meters <= 0 {
		return b
	}
	delta := meters / MetersPerDegree
	return BoundingBox{
		MinLon: b.MinLon - delta,
		MinLat: b.MinLat - delta,
		MaxLon: b.MaxLon + delta,
		MaxLat: b.MaxLat + delta,
	}
}

// String returns a human-readable representation of the bounding box
func (b BoundingBox) String() string {
	return fmt.Sprintf("bbox(%.6f,%.6f,%.6f,%.6f)", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Width returns the width of the bounding box in degrees
func (b BoundingBox) Width() float64 {
	return b.MaxLon - b.MinLon
}

// Height returns the height of the bounding box in degrees
func (b BoundingBox) Height() float64 {
	return b.MaxLat - b.MinLat
}
