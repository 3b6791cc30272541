// README: Entry point; loads config, wires geo/scan/store services, starts HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ebaggage/internal/config"
	"ebaggage/internal/geo"
	httptransport "ebaggage/internal/http"
	"ebaggage/internal/infra"
	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/travel"
	"ebaggage/internal/scan"
	"ebaggage/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := orders.NewStore(cfg.Store.Path, logger)

	geocoder, router, err := buildGeo(cfg, logger)
	if err != nil {
		logger.Fatal("geo init", zap.Error(err))
	}
	if cfg.Redis.Addr != "" {
		rdb := infra.NewRedis(cfg.Redis.Addr)
		ttl := time.Duration(cfg.Geo.CacheTTLHours) * time.Hour
		geocoder = geo.NewCachedGeocoder(geocoder, rdb, ttl, logger)
	}

	var provider scan.Provider = scan.MockProvider{}
	if cfg.Scan.GeminiKey != "" {
		gemini, err := scan.NewGeminiProvider(ctx, cfg.Scan.GeminiKey)
		if err != nil {
			logger.Fatal("gemini init", zap.Error(err))
		}
		defer gemini.Close()
		provider = gemini
	}
	scanner := scan.NewService(provider, store, logger)

	engine := travel.NewService(legDefaults(cfg.Legs), logger)

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Store:     store,
		Geocoder:  geocoder,
		Router:    router,
		Engine:    engine,
		Scanner:   scanner,
		MapCenter: types.Point{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
		Log:       logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server", zap.Error(err))
	}
}

func buildGeo(cfg config.Config, logger *zap.Logger) (geo.Geocoder, geo.Router, error) {
	timeout := time.Duration(cfg.Geo.TimeoutSecs) * time.Second

	if cfg.Geo.Backend == "google" {
		geocoder, err := geo.NewGoogleGeocoder(cfg.Geo.GoogleAPIKey, cfg.Geo.CountryHint)
		if err != nil {
			return nil, nil, err
		}
		router, err := geo.NewGoogleRouter(cfg.Geo.GoogleAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return geocoder, router, nil
	}

	geocoder := geo.NewNominatimGeocoder(cfg.Geo.NominatimURL, logger,
		geo.WithCountry(cfg.Geo.CountryHint),
		geo.WithTimeout(timeout),
		geo.WithRetry(cfg.Geo.MaxRetries, time.Duration(cfg.Geo.RetryDelayMS)*time.Millisecond))
	router := geo.NewOSRMRouter(cfg.Geo.OSRMURL, timeout, logger)
	return geocoder, router, nil
}

func legDefaults(legs config.LegTimes) travel.Defaults {
	defaults := travel.StandardDefaults()
	if t, err := travel.ParseTimeOfDay(legs.Arrival); err == nil {
		defaults.ArrivalTime = t
	}
	if t, err := travel.ParseTimeOfDay(legs.Checkout); err == nil {
		defaults.CheckoutTime = t
	}
	if t, err := travel.ParseTimeOfDay(legs.Departure); err == nil {
		defaults.DepartureTime = t
	}
	return defaults
}
