// README: Geocoding and routing capability contracts plus pure geographic helpers.
package geo

import (
	"context"
	"fmt"
	"math"

	"ebaggage/internal/types"
)

const earthRadiusKm = 6371.0

// Location is a resolved address.
type Location struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// Geocoder resolves addresses to coordinates and back. A (nil, nil) return
// from Geocode means the address could not be resolved; callers surface a
// user-facing message and never treat absence of a result as a crash.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Location, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Router fetches a driving polyline between two points. Best-effort:
// consumers always keep a straight-line fallback.
type Router interface {
	RoutePolyline(ctx context.Context, pickup, dropoff types.Point) ([]types.Point, error)
}

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceKm is HaversineKm over Point values.
func DistanceKm(a, b types.Point) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// ValidCoordinates reports whether the pair is a usable WGS84 coordinate.
func ValidCoordinates(lat, lng float64) bool {
	if lat < -90 || lat > 90 {
		return false
	}
	if lng < -180 || lng > 180 {
		return false
	}
	return true
}

// FormatCoordinates renders a coordinate pair for display.
func FormatCoordinates(lat, lng float64, precision int) string {
	return fmt.Sprintf("%.*f, %.*f", precision, lat, precision, lng)
}

// Center returns the midpoint of two coordinates.
func Center(a, b types.Point) types.Point {
	return types.Point{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}
}

// ZoomLevel picks a map zoom (8-17) that fits both points in view.
func ZoomLevel(a, b types.Point) int {
	maxDiff := math.Max(math.Abs(a.Lat-b.Lat), math.Abs(a.Lng-b.Lng))
	switch {
	case maxDiff < 0.001:
		return 17
	case maxDiff < 0.005:
		return 16
	case maxDiff < 0.01:
		return 15
	case maxDiff < 0.05:
		return 14
	case maxDiff < 0.1:
		return 13
	case maxDiff < 0.2:
		return 12
	case maxDiff < 0.5:
		return 11
	case maxDiff < 1:
		return 10
	default:
		return 8
	}
}

// PolylineOrStraightLine asks the router for a polyline and falls back to the
// two-point straight line when the router is absent or fails.
func PolylineOrStraightLine(ctx context.Context, r Router, pickup, dropoff types.Point) []types.Point {
	if r != nil {
		if line, err := r.RoutePolyline(ctx, pickup, dropoff); err == nil && len(line) > 0 {
			return line
		}
	}
	return []types.Point{pickup, dropoff}
}
