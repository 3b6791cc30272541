// README: Nominatim-backed geocoder with bounded retry and address simplification.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NominatimGeocoder resolves addresses against a Nominatim instance over
// plain HTTP. Transient failures (timeouts, connection errors, 5xx) are
// retried with linear backoff; a clean "no result" response is returned as
// (nil, nil) without retrying.
type NominatimGeocoder struct {
	baseURL    string
	userAgent  string
	country    string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	log        *zap.Logger
}

type NominatimOption func(*NominatimGeocoder)

func WithCountry(code string) NominatimOption {
	return func(g *NominatimGeocoder) { g.country = code }
}

func WithRetry(maxRetries int, delay time.Duration) NominatimOption {
	return func(g *NominatimGeocoder) {
		if maxRetries > 0 {
			g.maxRetries = maxRetries
		}
		if delay > 0 {
			g.retryDelay = delay
		}
	}
}

func WithTimeout(d time.Duration) NominatimOption {
	return func(g *NominatimGeocoder) { g.client.Timeout = d }
}

func NewNominatimGeocoder(baseURL string, log *zap.Logger, opts ...NominatimOption) *NominatimGeocoder {
	if log == nil {
		log = zap.NewNop()
	}
	g := &NominatimGeocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "e-baggage-app",
		country:    "tw",
		client:     &http.Client{Timeout: 5 * time.Second},
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
		log:        log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	if strings.TrimSpace(address) == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	if g.country != "" {
		q.Set("countrycodes", g.country)
	}

	var results []nominatimResult
	if err := g.getJSON(ctx, g.baseURL+"/search?"+q.Encode(), &results); err != nil {
		g.log.Warn("geocode failed", zap.String("address", address), zap.Error(err))
		return nil, err
	}
	if len(results) == 0 {
		g.log.Info("no geocode result", zap.String("address", address))
		return nil, nil
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lng, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("nominatim returned malformed coordinates for %q", address)
	}
	return &Location{Lat: lat, Lng: lng, FormattedAddress: results[0].DisplayName}, nil
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("accept-language", "zh-TW")

	var result struct {
		DisplayName string `json:"display_name"`
	}
	if err := g.getJSON(ctx, g.baseURL+"/reverse?"+q.Encode(), &result); err != nil {
		g.log.Warn("reverse geocode failed", zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		return "", err
	}
	if result.DisplayName == "" {
		return "", nil
	}
	return SimplifyAddress(result.DisplayName), nil
}

// getJSON performs a GET with bounded retry on transient failures.
func (g *NominatimGeocoder) getJSON(ctx context.Context, rawURL string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		err := g.getJSONOnce(ctx, rawURL, out)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
		g.log.Warn("geocoder request failed, retrying",
			zap.Int("attempt", attempt), zap.Int("max", g.maxRetries), zap.Error(err))
		if attempt < g.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.retryDelay * time.Duration(attempt)):
			}
		}
	}
	return lastErr
}

func (g *NominatimGeocoder) getJSONOnce(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &transientError{fmt.Errorf("nominatim status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nominatim status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// countryTokens are display-name parts dropped during simplification.
var countryTokens = map[string]struct{}{
	"Taiwan":            {},
	"台灣":                {},
	"臺灣":                {},
	"Republic of China": {},
}

// SimplifyAddress trims a full Nominatim display name down to its most
// meaningful leading parts, dropping postal codes and country names.
func SimplifyAddress(full string) string {
	parts := strings.Split(full, ", ")
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if isDigits(part) {
			continue
		}
		if _, skip := countryTokens[part]; skip {
			continue
		}
		filtered = append(filtered, part)
	}
	if len(filtered) == 0 {
		return full
	}
	if len(filtered) > 4 {
		filtered = filtered[:4]
	}
	return strings.Join(filtered, ", ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
