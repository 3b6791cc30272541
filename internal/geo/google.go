// README: Google Maps backed geocoder and router.
package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"ebaggage/internal/types"
)

// GoogleGeocoder resolves addresses through the Google Geocoding API.
type GoogleGeocoder struct {
	client *maps.Client
	region string
}

func NewGoogleGeocoder(apiKey, region string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, region: region}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	if address == "" {
		return nil, nil
	}
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  g.region,
	})
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	loc := results[0].Geometry.Location
	return &Location{
		Lat:              loc.Lat,
		Lng:              loc.Lng,
		FormattedAddress: results[0].FormattedAddress,
	}, nil
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: "zh-TW",
	})
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].FormattedAddress, nil
}

// GoogleRouter fetches driving polylines through the Directions API.
type GoogleRouter struct {
	client *maps.Client
}

func NewGoogleRouter(apiKey string) (*GoogleRouter, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleRouter{client: client}, nil
}

func (r *GoogleRouter) RoutePolyline(ctx context.Context, pickup, dropoff types.Point) ([]types.Point, error) {
	routes, _, err := r.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", pickup.Lat, pickup.Lng),
		Destination: fmt.Sprintf("%f,%f", dropoff.Lat, dropoff.Lng),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no route found")
	}
	decoded, err := maps.DecodePolyline(routes[0].OverviewPolyline.Points)
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	line := make([]types.Point, 0, len(decoded))
	for _, p := range decoded {
		line = append(line, types.Point{Lat: p.Lat, Lng: p.Lng})
	}
	return line, nil
}
