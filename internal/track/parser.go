// Package track parses GPX track documents into normalized routes.
package track

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/fxi/geodrink/internal/geo"
	"github.com/fxi/geodrink/internal/types"
)

var (
	// ErrMalformed is returned when the document is not well-formed XML.
	ErrMalformed = errors.New("malformed track document")
	// ErrNoPoints is returned when the document contains neither track
	// points nor route points.
	ErrNoPoints = errors.New("no track or route points found")
	// ErrNoCoordinates is returned when no point carries parseable
	// coordinates.
	ErrNoCoordinates = errors.New("no coordinates parseable")
)

// Parse reads a GPX document and returns a normalized Route.
//
// Track points (<trkpt>) are preferred; if the document has none, route
// points (<rtept>) are used instead. Points whose lat or lon attribute does
// not parse as a finite number are skipped, not fatal. The route name is
// taken from the first of: track name, route name, metadata name.
func Parse(r io.Reader) (*types.Route, error) {
	dec := xml.NewDecoder(r)

	var (
		trkpts, rtepts orb.LineString
		sawTrkpt       bool
		sawRtept       bool

		trkName, rteName, metaName string

		// Element context while walking the token stream.
		container string // "trk", "rte" or "metadata"
		inPoint   bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "trk", "rte", "metadata":
				container = el.Name.Local
			case "trkpt":
				sawTrkpt = true
				inPoint = true
				if p, ok := pointFromAttrs(el.Attr); ok {
					trkpts = append(trkpts, p)
				}
			case "rtept":
				sawRtept = true
				inPoint = true
				if p, ok := pointFromAttrs(el.Attr); ok {
					rtepts = append(rtepts, p)
				}
			case "name":
				if inPoint {
					break
				}
				var s string
				if err := dec.DecodeElement(&s, &el); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
				}
				switch container {
				case "trk":
					if trkName == "" {
						trkName = s
					}
				case "rte":
					if rteName == "" {
						rteName = s
					}
				case "metadata":
					if metaName == "" {
						metaName = s
					}
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "trkpt", "rtept":
				inPoint = false
			case "trk", "rte", "metadata":
				container = ""
			}
		}
	}

	if !sawTrkpt && !sawRtept {
		return nil, ErrNoPoints
	}

	coords := trkpts
	if !sawTrkpt {
		coords = rtepts
	}
	if len(coords) == 0 {
		return nil, ErrNoCoordinates
	}

	bounds := types.NewBoundingBox(coords[0])
	length := 0.0
	for i, p := range coords {
		bounds = bounds.Extend(p)
		if i > 0 {
			length += geo.Distance(coords[i-1], p)
		}
	}

	name := trkName
	if name == "" {
		name = rteName
	}
	if name == "" {
		name = metaName
	}

	return &types.Route{
		Name:        name,
		Coordinates: coords,
		Bounds:      bounds,
		Length:      length,
	}, nil
}

// pointFromAttrs extracts a (lon, lat) point from a trkpt/rtept attribute
// list. Both attributes must be present and finite.
func pointFromAttrs(attrs []xml.Attr) (orb.Point, bool) {
	var lat, lon float64
	var haveLat, haveLon bool

	for _, a := range attrs {
		switch a.Name.Local {
		case "lat":
			lat, haveLat = parseFinite(a.Value)
		case "lon":
			lon, haveLon = parseFinite(a.Value)
		}
	}

	if !haveLat || !haveLon {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
