// README: Geocoding and route preview handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ebaggage/internal/geo"
	"ebaggage/internal/types"
)

type LocationHandler struct {
	geocoder geo.Geocoder
	router   geo.Router
}

func NewLocationHandler(geocoder geo.Geocoder, router geo.Router) *LocationHandler {
	return &LocationHandler{geocoder: geocoder, router: router}
}

func (h *LocationHandler) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing address"})
		return
	}
	loc, err := h.geocoder.Geocode(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	if loc == nil {
		respondNotFound(c, "address could not be resolved")
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *LocationHandler) ReverseGeocode(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.Query("lng"), 64)
	if err1 != nil || err2 != nil || !geo.ValidCoordinates(lat, lng) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}
	address, err := h.geocoder.ReverseGeocode(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"address":     address,
		"lat":         lat,
		"lng":         lng,
		"coordinates": geo.FormatCoordinates(lat, lng, 5),
	})
}

// Route returns a drivable polyline with map framing; the straight line
// between the endpoints when no route is available.
func (h *LocationHandler) Route(c *gin.Context) {
	pickup, ok1 := parsePoint(c, "from_lat", "from_lng")
	dropoff, ok2 := parsePoint(c, "to_lat", "to_lng")
	if !ok1 || !ok2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		return
	}
	line := geo.PolylineOrStraightLine(c.Request.Context(), h.router, pickup, dropoff)
	c.JSON(http.StatusOK, gin.H{
		"polyline":    line,
		"center":      geo.Center(pickup, dropoff),
		"zoom":        geo.ZoomLevel(pickup, dropoff),
		"distance_km": geo.DistanceKm(pickup, dropoff),
	})
}

func parsePoint(c *gin.Context, latKey, lngKey string) (types.Point, bool) {
	lat, err1 := strconv.ParseFloat(c.Query(latKey), 64)
	lng, err2 := strconv.ParseFloat(c.Query(lngKey), 64)
	if err1 != nil || err2 != nil || !geo.ValidCoordinates(lat, lng) {
		return types.Point{}, false
	}
	return types.Point{Lat: lat, Lng: lng}, true
}
