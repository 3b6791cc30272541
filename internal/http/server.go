// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ebaggage/internal/geo"
	"ebaggage/internal/http/handlers"
	"ebaggage/internal/http/middleware"
	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/pricing"
	"ebaggage/internal/modules/travel"
	"ebaggage/internal/scan"
	"ebaggage/internal/types"
)

type ServerDeps struct {
	Store     *orders.Store
	Geocoder  geo.Geocoder
	Router    geo.Router
	Engine    *travel.Service
	Scanner   *scan.Service
	MapCenter types.Point
	Log       *zap.Logger
}

// NewRouter builds the full route table. Wizard sessions are held in
// memory by their handlers; everything else is stateless over the store.
func NewRouter(deps ServerDeps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(deps.Log), middleware.Recovery(deps.Log))

	orderHandler := handlers.NewOrderHandler(deps.Store)
	r.GET("/api/orders", orderHandler.List)
	r.GET("/api/orders/:id", orderHandler.Get)
	r.PUT("/api/orders/:id/status", orderHandler.UpdateStatus)
	r.POST("/api/orders/:id/cancel", orderHandler.Cancel)
	r.GET("/api/hotels", orderHandler.Hotels)

	locationHandler := handlers.NewLocationHandler(deps.Geocoder, deps.Router)
	r.GET("/api/geo/geocode", locationHandler.Geocode)
	r.GET("/api/geo/reverse", locationHandler.ReverseGeocode)
	r.GET("/api/geo/route", locationHandler.Route)

	scanHandler := handlers.NewScanHandler(deps.Scanner)
	r.POST("/api/scan", scanHandler.Scan)

	r.GET("/api/vehicles", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tiers": pricing.Tiers()})
	})

	instant := handlers.NewInstantHandler(deps.Geocoder, deps.Router, deps.Engine,
		deps.Store, deps.Scanner, deps.MapCenter, deps.Log)
	ig := r.Group("/api/instant/sessions")
	ig.POST("", instant.Create)
	ig.GET("/:id", instant.State)
	ig.PUT("/:id/details", instant.SetDetails)
	ig.POST("/:id/scan", instant.Scan)
	ig.POST("/:id/quote", instant.Quote)
	ig.POST("/:id/vehicle", instant.SelectVehicle)
	ig.POST("/:id/confirm", instant.Confirm)
	ig.POST("/:id/back", instant.Back)
	ig.DELETE("/:id", instant.Delete)

	advance := handlers.NewAdvanceHandler(deps.Geocoder, deps.Engine, deps.Store, deps.Log)
	ag := r.Group("/api/advance/sessions")
	ag.POST("", advance.Create)
	ag.GET("/:id", advance.State)
	ag.PUT("/:id/dates", advance.SetDates)
	ag.POST("/:id/planning", advance.BeginPlanning)
	ag.PUT("/:id/segments/:index", advance.UpdateSegment)
	ag.POST("/:id/segments/next", advance.NextSegment)
	ag.DELETE("/:id/segments/last", advance.RemoveLastSegment)
	ag.POST("/:id/confirm", advance.Confirm)
	ag.POST("/:id/submit", advance.Submit)
	ag.DELETE("/:id", advance.Delete)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
