// Package geo implements the distance and projection primitives the rest of
// the engine is built on. All functions are pure and safe for concurrent use.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between two (lon, lat) points
// in meters, computed with the haversine formula.
func Distance(a, b orb.Point) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// NearestPointOnSegment returns the point on segment [a, b] closest to p.
// The projection is computed in raw (lon, lat) coordinate space as a planar
// approximation, which holds at the small local scales this engine deals
// with (buffers under ~1 km). It is not valid near the poles or across the
// antimeridian. A zero-length segment returns its single point.
func NearestPointOnSegment(p, a, b orb.Point) orb.Point {
	dx := b.Lon() - a.Lon()
	dy := b.Lat() - a.Lat()

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}

	t := ((p.Lon()-a.Lon())*dx + (p.Lat()-a.Lat())*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return orb.Point{a.Lon() + t*dx, a.Lat() + t*dy}
}

// DistanceAlongRoute returns the cumulative great-circle distance in meters
// from the start of line to the projection of p onto its nearest segment.
// Every consecutive coordinate pair is scanned; ties between segments go to
// the lowest index. Cost is O(len(line)) per call, which is fine for routes
// bounded to a few thousand points queried once per point of interest.
func DistanceAlongRoute(p orb.Point, line orb.LineString) float64 {
	if len(line) < 2 {
		return 0
	}

	bestIdx := 0
	bestDistSq := math.Inf(1)
	var bestProj orb.Point

	for i := 0; i < len(line)-1; i++ {
		proj := NearestPointOnSegment(p, line[i], line[i+1])
		dx := p.Lon() - proj.Lon()
		dy := p.Lat() - proj.Lat()
		distSq := dx*dx + dy*dy
		if distSq < bestDistSq {
			bestDistSq = distSq
			bestIdx = i
			bestProj = proj
		}
	}

	total := 0.0
	for i := 0; i < bestIdx; i++ {
		total += Distance(line[i], line[i+1])
	}
	return total + Distance(line[bestIdx], bestProj)
}

// MinDistanceFromRoute returns the minimum great-circle distance in meters
// from p to the polyline, measured against the nearest projection on each
// segment. A single-point line degrades to the distance to that point.
func MinDistanceFromRoute(p orb.Point, line orb.LineString) float64 {
	if len(line) == 0 {
		return math.Inf(1)
	}
	if len(line) == 1 {
		return Distance(p, line[0])
	}

	min := math.Inf(1)
	for i := 0; i < len(line)-1; i++ {
		proj := NearestPointOnSegment(p, line[i], line[i+1])
		if d := Distance(p, proj); d < min {
			min = d
		}
	}
	return min
}
