// Package geometry wraps the small amount of spatial math the graph
// needs: WGS84 point coordinates, WKT rendering for the persistence
// layer, GeoJSON geometry shapes for serving, and planar distance
// comparison for nearest-neighbor lookups.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoordinatePrecision is the number of decimal places kept when
// ingesting raw coordinates. Eight decimals of a degree is roughly
// millimeter resolution, well past survey accuracy of the source data.
const CoordinatePrecision = 8

// Point is a WGS84 longitude/latitude pair, in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Round returns the point with both components rounded to
// CoordinatePrecision decimal places.
func (p Point) Round() Point {
	return Point{
		Lon: roundTo(p.Lon, CoordinatePrecision),
		Lat: roundTo(p.Lat, CoordinatePrecision),
	}
}

// WKT renders the point as well-known text, e.g. "POINT(10 50)".
// Coordinates render with the shortest representation that round-trips,
// so trailing zeros are dropped.
func (p Point) WKT() string {
	return "POINT(" + formatCoord(p.Lon) + " " + formatCoord(p.Lat) + ")"
}

// GeoJSON returns the point as a GeoJSON Point geometry.
func (p Point) GeoJSON() PointGeometry {
	return PointGeometry{
		Type:        "Point",
		Coordinates: [2]float64{p.Lon, p.Lat},
	}
}

// ParsePointWKT parses "POINT(lon lat)" text back into a Point.
func ParsePointWKT(s string) (Point, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(s), "POINT(")
	if !ok {
		return Point{}, fmt.Errorf("not a WKT point: %q", s)
	}
	body, ok = strings.CutSuffix(body, ")")
	if !ok {
		return Point{}, fmt.Errorf("unterminated WKT point: %q", s)
	}
	parts := strings.Fields(body)
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("expected 2 coordinates in WKT point, got %d", len(parts))
	}
	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad latitude %q: %w", parts[1], err)
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// DistanceSq returns the squared planar distance between two points in
// degree space. Only used for ordering candidates, so the square root
// is never taken.
func DistanceSq(a, b Point) float64 {
	dx := a.Lon - b.Lon
	dy := a.Lat - b.Lat
	return dx*dx + dy*dy
}

// PointGeometry is a GeoJSON Point.
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// LineGeometry is a GeoJSON LineString.
type LineGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Line builds a two-vertex GeoJSON LineString between a and b.
func Line(a, b Point) LineGeometry {
	return LineGeometry{
		Type: "LineString",
		Coordinates: [][2]float64{
			{a.Lon, a.Lat},
			{b.Lon, b.Lat},
		},
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
