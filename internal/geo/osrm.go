// README: OSRM-backed router; best-effort polyline fetch.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"ebaggage/internal/types"
)

// OSRMRouter fetches driving routes from a public OSRM instance.
type OSRMRouter struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewOSRMRouter(baseURL string, timeout time.Duration, log *zap.Logger) *OSRMRouter {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OSRMRouter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type osrmResponse struct {
	Routes []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

func (r *OSRMRouter) RoutePolyline(ctx context.Context, pickup, dropoff types.Point) ([]types.Point, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		r.baseURL, pickup.Lng, pickup.Lat, dropoff.Lng, dropoff.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Warn("osrm request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osrm status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode osrm response: %w", err)
	}
	if len(body.Routes) == 0 || len(body.Routes[0].Geometry.Coordinates) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	coords := body.Routes[0].Geometry.Coordinates
	line := make([]types.Point, 0, len(coords))
	for _, c := range coords {
		line = append(line, types.Point{Lat: c[1], Lng: c[0]})
	}
	return line, nil
}
