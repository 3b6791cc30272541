package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSimplifyAddress(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{
			name: "drops postal code and country",
			full: "Taipei 101, Xinyi Road, Xinyi District, Taipei, 110, 台灣",
			want: "Taipei 101, Xinyi Road, Xinyi District, Taipei",
		},
		{
			name: "keeps at most four parts",
			full: "No. 7, Section 5, Xinyi Road, Xinyi District, Taipei City, Taiwan",
			want: "No. 7, Section 5, Xinyi Road, Xinyi District",
		},
		{
			name: "drops english country token",
			full: "Grand Hotel, Zhongshan District, Taiwan",
			want: "Grand Hotel, Zhongshan District",
		},
		{
			name: "all parts filtered falls back to input",
			full: "110, Taiwan",
			want: "110, Taiwan",
		},
		{
			name: "plain short address untouched",
			full: "Grand Hotel",
			want: "Grand Hotel",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimplifyAddress(tt.full); got != tt.want {
				t.Errorf("SimplifyAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNominatimGeocoder_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "nowhere" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"lat":"25.0340","lon":"121.5645","display_name":"Taipei 101, Xinyi District, Taipei, Taiwan"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, nil, WithRetry(2, time.Millisecond))

	loc, err := g.Geocode(context.Background(), "Taipei 101")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if loc == nil || loc.Lat != 25.0340 || loc.Lng != 121.5645 {
		t.Errorf("Geocode() = %+v, want 25.0340/121.5645", loc)
	}

	loc, err = g.Geocode(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("Geocode(no result) error = %v", err)
	}
	if loc != nil {
		t.Errorf("Geocode(no result) = %+v, want nil", loc)
	}

	loc, err = g.Geocode(context.Background(), "   ")
	if err != nil || loc != nil {
		t.Errorf("Geocode(blank) = %+v, %v, want nil, nil", loc, err)
	}
}

func TestNominatimGeocoder_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"lat":"25.0","lon":"121.5","display_name":"somewhere"}]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, nil, WithRetry(3, time.Millisecond))
	loc, err := g.Geocode(context.Background(), "somewhere")
	if err != nil {
		t.Fatalf("Geocode() error = %v, want success after retries", err)
	}
	if loc == nil {
		t.Fatal("Geocode() = nil, want location")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestNominatimGeocoder_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, nil, WithRetry(3, time.Millisecond))
	if _, err := g.Geocode(context.Background(), "somewhere"); err == nil {
		t.Fatal("Geocode() error = nil, want failure")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (4xx must not retry)", got)
	}
}

func TestNominatimGeocoder_ReverseGeocodeSimplifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":"Grand Hotel, Zhongshan District, Taipei, 104, 台灣"}`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL, nil)
	got, err := g.ReverseGeocode(context.Background(), 25.08, 121.53)
	if err != nil {
		t.Fatalf("ReverseGeocode() error = %v", err)
	}
	want := "Grand Hotel, Zhongshan District, Taipei"
	if got != want {
		t.Errorf("ReverseGeocode() = %q, want %q", got, want)
	}
}
