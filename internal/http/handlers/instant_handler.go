// README: Instant booking wizard over HTTP: one session id per wizard run.
package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ebaggage/internal/booking"
	"ebaggage/internal/geo"
	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/travel"
	"ebaggage/internal/scan"
	"ebaggage/internal/types"
)

// instantFlow pairs a wizard session with its vehicle-selection sub-flow.
type instantFlow struct {
	session *booking.InstantSession
	vehicle *booking.VehicleSelection
}

type InstantHandler struct {
	geocoder  geo.Geocoder
	router    geo.Router
	engine    *travel.Service
	store     *orders.Store
	scanner   *scan.Service
	mapCenter types.Point
	log       *zap.Logger

	mu    sync.Mutex
	flows map[string]*instantFlow
}

func NewInstantHandler(geocoder geo.Geocoder, router geo.Router, engine *travel.Service, store *orders.Store, scanner *scan.Service, mapCenter types.Point, log *zap.Logger) *InstantHandler {
	return &InstantHandler{
		geocoder:  geocoder,
		router:    router,
		engine:    engine,
		store:     store,
		scanner:   scanner,
		mapCenter: mapCenter,
		log:       log,
		flows:     make(map[string]*instantFlow),
	}
}

func (h *InstantHandler) flow(c *gin.Context) (*instantFlow, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.flows[c.Param("id")]
	if !ok {
		respondNotFound(c, "session not found")
		return nil, false
	}
	return f, true
}

type createSessionReq struct {
	UserEmail string `json:"user_email"`
}

func (h *InstantHandler) Create(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_email"})
		return
	}

	id := uuid.NewString()
	f := &instantFlow{
		session: booking.NewInstantSession(h.geocoder, h.engine, h.store, req.UserEmail, h.mapCenter, h.log),
		vehicle: booking.NewVehicleSelection(h.router, h.log),
	}
	h.mu.Lock()
	h.flows[id] = f
	h.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"session_id": id, "step": f.session.Step()})
}

type instantDetailsReq struct {
	Pickup       string `json:"pickup"`
	Dropoff      string `json:"dropoff"`
	LuggageCount *int   `json:"luggage_count"`
	LuggageNote  string `json:"luggage_note"`
}

func (h *InstantHandler) SetDetails(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	var req instantDetailsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Pickup != "" {
		f.session.SetPickup(req.Pickup)
	}
	if req.Dropoff != "" {
		f.session.SetDropoff(req.Dropoff)
	}
	if req.LuggageCount != nil {
		f.session.SetLuggageCount(*req.LuggageCount)
	}
	if req.LuggageNote != "" {
		f.session.SetLuggageNote(req.LuggageNote)
	}
	c.JSON(http.StatusOK, gin.H{"step": f.session.Step()})
}

type instantScanReq struct {
	Description string `json:"description"`
}

// Scan runs the luggage analyzer and confirms the scan on the session.
func (h *InstantHandler) Scan(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	var req instantScanReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing luggage description"})
		return
	}
	result, err := h.scanner.ScanAndRecord(c.Request.Context(), f.session.UserEmail(), "instant_booking", req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	f.session.ConfirmScan(result.Items)
	c.JSON(http.StatusOK, result)
}

// Quote builds the pending trip and opens the vehicle-selection sub-flow.
func (h *InstantHandler) Quote(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	trip, err := f.session.ProceedToVehicle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if err := f.vehicle.PrepareFromTrip(c.Request.Context(), trip,
		f.session.Pickup(), f.session.Dropoff(), f.session.LuggageNote()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip":    trip,
		"options": f.vehicle.Options(),
		"summary": f.vehicle.Summary(),
		"map":     f.vehicle.MapContext(),
	})
}

type selectVehicleReq struct {
	Type string `json:"type"`
}

// SelectVehicle confirms a tier choice and applies it to the pending trip.
func (h *InstantHandler) SelectVehicle(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	var req selectVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing vehicle type"})
		return
	}
	if err := f.vehicle.Select(req.Type); err != nil {
		respondError(c, err)
		return
	}
	choice, err := f.vehicle.Confirm()
	if err != nil {
		respondError(c, err)
		return
	}
	if err := f.session.ApplyVehicle(choice.Type, choice.Label, choice.Price); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": f.session.Step(), "vehicle": choice})
}

// Confirm persists the booking and closes the session.
func (h *InstantHandler) Confirm(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	rec, err := f.session.Finalize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	f.vehicle.Reset()
	c.JSON(http.StatusCreated, gin.H{"order": rec})
}

func (h *InstantHandler) Back(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	f.session.Back()
	c.JSON(http.StatusOK, gin.H{"step": f.session.Step()})
}

func (h *InstantHandler) Delete(c *gin.Context) {
	h.mu.Lock()
	delete(h.flows, c.Param("id"))
	h.mu.Unlock()
	c.Status(http.StatusNoContent)
}

// State returns the current wizard position and collected fields.
func (h *InstantHandler) State(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":             f.session.Step(),
		"pickup":           f.session.Pickup(),
		"dropoff":          f.session.Dropoff(),
		"pending_trip":     f.session.PendingTrip(),
		"selected_vehicle": f.session.SelectedVehicle(),
	})
}
