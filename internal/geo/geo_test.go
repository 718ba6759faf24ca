package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDistanceSymmetricAndZero(t *testing.T) {
	points := []struct {
		a, b orb.Point
	}{
		{orb.Point{2.3522, 48.8566}, orb.Point{9.7339, 52.3737}},  // Paris - Hanover
		{orb.Point{-0.1276, 51.5072}, orb.Point{2.3522, 48.8566}}, // London - Paris
		{orb.Point{0, 0}, orb.Point{0, 0}},
		{orb.Point{179.9, -45}, orb.Point{-179.9, -45}},
	}

	for _, tt := range points {
		ab := Distance(tt.a, tt.b)
		ba := Distance(tt.b, tt.a)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric: %v vs %v", ab, ba)
		}
		if ab < 0 {
			t.Errorf("Distance negative: %v", ab)
		}
	}

	p := orb.Point{13.4, 52.52}
	if d := Distance(p, p); d != 0 {
		t.Errorf("Distance(p, p) = %v, want 0", d)
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// Paris to London is roughly 344 km.
	paris := orb.Point{2.3522, 48.8566}
	london := orb.Point{-0.1276, 51.5072}

	d := Distance(paris, london)
	if d < 330000 || d > 360000 {
		t.Errorf("Paris-London distance = %.0f m, expected ~344 km", d)
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.2 km on a 6371 km sphere.
	a := orb.Point{0, 0}
	b := orb.Point{0, 1}

	d := Distance(a, b)
	if math.Abs(d-111195) > 50 {
		t.Errorf("one degree latitude = %.0f m, want ~111195 m", d)
	}
}

func TestNearestPointOnSegment(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{10, 0}

	tests := []struct {
		name string
		p    orb.Point
		want orb.Point
	}{
		{"above middle", orb.Point{5, 3}, orb.Point{5, 0}},
		{"before start", orb.Point{-4, 2}, orb.Point{0, 0}},
		{"after end", orb.Point{15, -1}, orb.Point{10, 0}},
		{"on segment", orb.Point{7, 0}, orb.Point{7, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestPointOnSegment(tt.p, a, b)
			if math.Abs(got.Lon()-tt.want.Lon()) > 1e-12 || math.Abs(got.Lat()-tt.want.Lat()) > 1e-12 {
				t.Errorf("NearestPointOnSegment(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestNearestPointOnSegmentClamped(t *testing.T) {
	// The projection must always land between the endpoints.
	a := orb.Point{2.0, 48.0}
	b := orb.Point{2.1, 48.05}

	for _, p := range []orb.Point{{1.0, 47.0}, {3.0, 49.0}, {2.05, 48.1}, {2.02, 47.9}} {
		got := NearestPointOnSegment(p, a, b)
		if got.Lon() < a.Lon()-1e-12 || got.Lon() > b.Lon()+1e-12 {
			t.Errorf("projection %v outside segment lon range", got)
		}
	}
}

func TestNearestPointOnSegmentDegenerate(t *testing.T) {
	a := orb.Point{2.5, 47.5}
	got := NearestPointOnSegment(orb.Point{3, 48}, a, a)
	if got != a {
		t.Errorf("degenerate segment: got %v, want %v", got, a)
	}
}

func TestDistanceAlongRouteMonotonic(t *testing.T) {
	// Straight west-east route; probes moving east must yield non-decreasing
	// along-route distances.
	route := orb.LineString{{2.0, 48.0}, {2.05, 48.0}, {2.1, 48.0}, {2.2, 48.0}}

	prev := -1.0
	for lon := 2.0; lon <= 2.2; lon += 0.01 {
		d := DistanceAlongRoute(orb.Point{lon, 48.001}, route)
		if d < prev {
			t.Fatalf("along-route distance decreased at lon %.2f: %v < %v", lon, d, prev)
		}
		prev = d
	}
}

func TestDistanceAlongRouteMidSegment(t *testing.T) {
	route := orb.LineString{{2.0, 48.0}, {2.1, 48.0}}

	// Point just north of the segment midpoint projects halfway along.
	d := DistanceAlongRoute(orb.Point{2.05, 48.0005}, route)
	half := Distance(route[0], route[1]) / 2
	if math.Abs(d-half) > 5 {
		t.Errorf("mid-segment along-route distance = %.1f, want ~%.1f", d, half)
	}
}

func TestDistanceAlongRouteEndpoints(t *testing.T) {
	route := orb.LineString{{2.0, 48.0}, {2.1, 48.0}, {2.1, 48.1}}

	if d := DistanceAlongRoute(route[0], route); d != 0 {
		t.Errorf("start point along-route distance = %v, want 0", d)
	}

	total := Distance(route[0], route[1]) + Distance(route[1], route[2])
	if d := DistanceAlongRoute(route[2], route); math.Abs(d-total) > 1 {
		t.Errorf("end point along-route distance = %v, want ~%v", d, total)
	}
}

func TestDistanceAlongRouteShortLine(t *testing.T) {
	if d := DistanceAlongRoute(orb.Point{1, 1}, orb.LineString{{0, 0}}); d != 0 {
		t.Errorf("single point line: got %v, want 0", d)
	}
}

func TestMinDistanceFromRoute(t *testing.T) {
	route := orb.LineString{{2.0, 48.0}, {2.1, 48.0}}

	// Mid-segment point a few meters north: nearest projection is on the
	// segment, far from both vertices.
	d := MinDistanceFromRoute(orb.Point{2.05, 48.00005}, route)
	if d > 10 {
		t.Errorf("mid-segment min distance = %.1f m, want a few meters", d)
	}

	// ~500 m north of the segment.
	far := MinDistanceFromRoute(orb.Point{2.05, 48.0045}, route)
	if far < 400 || far > 600 {
		t.Errorf("offset min distance = %.1f m, want ~500 m", far)
	}
}

func TestMinDistanceFromRouteDegenerate(t *testing.T) {
	if !math.IsInf(MinDistanceFromRoute(orb.Point{0, 0}, nil), 1) {
		t.Error("empty line should yield +Inf")
	}

	single := orb.LineString{{2.0, 48.0}}
	want := Distance(orb.Point{2.0, 48.1}, single[0])
	if d := MinDistanceFromRoute(orb.Point{2.0, 48.1}, single); d != want {
		t.Errorf("single vertex line: got %v, want %v", d, want)
	}
}
