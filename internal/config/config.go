// README: Config loader with env defaults for HTTP, store, geo backends and scheduling times.
package config

import (
	"os"
	"strconv"
)

// GeoConfig selects and tunes the geocoding/routing capability.
type GeoConfig struct {
	Backend       string // "nominatim" or "google"
	GoogleAPIKey  string
	NominatimURL  string
	OSRMURL       string
	CountryHint   string
	TimeoutSecs   int
	MaxRetries    int
	RetryDelayMS  int
	CacheTTLHours int
}

// LegTimes holds the default time-of-day used when scheduling generated legs.
type LegTimes struct {
	Arrival   string // HH:MM
	Checkout  string
	Departure string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Store struct {
		Path string
	}
	Redis struct {
		Addr string // empty disables the geocode cache
	}
	Geo  GeoConfig
	Scan struct {
		GeminiKey string // empty falls back to the mock scanner
	}
	Legs LegTimes
	Map  struct {
		DefaultLat float64
		DefaultLng float64
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("EBAGGAGE_HTTP_ADDR", ":8080")
	cfg.Store.Path = envOrDefault("EBAGGAGE_STORE_PATH", "demo_db.json")
	cfg.Redis.Addr = envOrDefault("EBAGGAGE_REDIS_ADDR", "")
	cfg.Geo.Backend = envOrDefault("EBAGGAGE_GEO_BACKEND", "nominatim")
	cfg.Geo.GoogleAPIKey = envOrDefault("GOOGLE_MAPS_API_KEY", "")
	cfg.Geo.NominatimURL = envOrDefault("EBAGGAGE_NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	cfg.Geo.OSRMURL = envOrDefault("EBAGGAGE_OSRM_URL", "http://router.project-osrm.org")
	cfg.Geo.CountryHint = envOrDefault("EBAGGAGE_GEO_COUNTRY", "tw")
	cfg.Geo.TimeoutSecs = envOrDefaultInt("EBAGGAGE_GEO_TIMEOUT_SECS", 5)
	cfg.Geo.MaxRetries = envOrDefaultInt("EBAGGAGE_GEO_MAX_RETRIES", 3)
	cfg.Geo.RetryDelayMS = envOrDefaultInt("EBAGGAGE_GEO_RETRY_DELAY_MS", 500)
	cfg.Geo.CacheTTLHours = envOrDefaultInt("EBAGGAGE_GEO_CACHE_TTL_HOURS", 24)
	cfg.Scan.GeminiKey = envOrDefault("GEMINI_API_KEY", "")
	cfg.Legs.Arrival = envOrDefault("EBAGGAGE_ARRIVAL_TIME", "14:00")
	cfg.Legs.Checkout = envOrDefault("EBAGGAGE_CHECKOUT_TIME", "11:00")
	cfg.Legs.Departure = envOrDefault("EBAGGAGE_DEPARTURE_TIME", "12:00")
	cfg.Map.DefaultLat = envOrDefaultFloat("EBAGGAGE_MAP_CENTER_LAT", 25.0330)
	cfg.Map.DefaultLng = envOrDefaultFloat("EBAGGAGE_MAP_CENTER_LNG", 121.5654)
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}
