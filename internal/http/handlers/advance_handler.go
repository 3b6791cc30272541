// README: Advance booking wizard over HTTP: dates, chained stays, preview, submit.
package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ebaggage/internal/booking"
	"ebaggage/internal/geo"
	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/travel"
)

type AdvanceHandler struct {
	geocoder geo.Geocoder
	engine   *travel.Service
	store    *orders.Store
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*booking.AdvanceSession
}

func NewAdvanceHandler(geocoder geo.Geocoder, engine *travel.Service, store *orders.Store, log *zap.Logger) *AdvanceHandler {
	return &AdvanceHandler{
		geocoder: geocoder,
		engine:   engine,
		store:    store,
		log:      log,
		sessions: make(map[string]*booking.AdvanceSession),
	}
}

func (h *AdvanceHandler) session(c *gin.Context) (*booking.AdvanceSession, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[c.Param("id")]
	if !ok {
		respondNotFound(c, "session not found")
		return nil, false
	}
	return s, true
}

func (h *AdvanceHandler) Create(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.UserEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user_email"})
		return
	}

	id := uuid.NewString()
	s := booking.NewAdvanceSession(h.geocoder, h.engine, h.store, req.UserEmail, h.log)
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{"session_id": id, "step": s.Step()})
}

type advanceDatesReq struct {
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	LuggageCount      *int   `json:"luggage_count"`
	ArrivalTransfer   *bool  `json:"arrival_transfer"`
	DepartureTransfer *bool  `json:"departure_transfer"`
	ArrivalLocation   string `json:"arrival_location"`
	DepartureLocation string `json:"departure_location"`
}

func (h *AdvanceHandler) SetDates(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req advanceDatesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if d, ok := parseDate(req.StartDate); ok {
		s.SetStartDate(d)
	}
	if d, ok := parseDate(req.EndDate); ok {
		s.SetEndDate(d)
	}
	if req.LuggageCount != nil {
		s.SetLuggageCount(*req.LuggageCount)
	}
	if req.ArrivalTransfer != nil || req.DepartureTransfer != nil {
		arrival := req.ArrivalTransfer != nil && *req.ArrivalTransfer
		departure := req.DepartureTransfer != nil && *req.DepartureTransfer
		s.SetTransfers(arrival, departure)
	}
	s.SetArrivalLocation(req.ArrivalLocation)
	s.SetDepartureLocation(req.DepartureLocation)
	c.JSON(http.StatusOK, gin.H{"step": s.Step()})
}

// BeginPlanning enters the segment-planning step.
func (h *AdvanceHandler) BeginPlanning(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.BeginPlanning(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": s.Step(), "segments": s.Segments()})
}

type segmentReq struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	HotelName string `json:"hotel_name"`
}

// UpdateSegment edits one unlocked stay segment.
func (h *AdvanceHandler) UpdateSegment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid segment index"})
		return
	}
	var req segmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if d, ok := parseDate(req.CheckIn); ok {
		if err := s.SetSegmentCheckIn(index, d); err != nil {
			respondError(c, err)
			return
		}
	}
	if d, ok := parseDate(req.CheckOut); ok {
		if err := s.SetSegmentCheckOut(index, d); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.HotelName != "" {
		if err := s.SetSegmentHotel(index, req.HotelName); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"segments": s.Segments()})
}

// NextSegment confirms the current stay and chains the next one.
func (h *AdvanceHandler) NextSegment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	added, err := s.AddNextSegment()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "segments": s.Segments()})
}

func (h *AdvanceHandler) RemoveLastSegment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.RemoveLastSegment()
	c.JSON(http.StatusOK, gin.H{"segments": s.Segments()})
}

// Confirm validates the plan and returns the priced preview. Nothing is
// persisted yet.
func (h *AdvanceHandler) Confirm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	preview, err := s.ProceedToConfirm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": s.Step(), "travel": preview})
}

// Submit persists the previewed travel with all its trips.
func (h *AdvanceHandler) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	travelRec, tripRecs, err := s.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"travel": travelRec, "trips": tripRecs})
}

func (h *AdvanceHandler) Delete(c *gin.Context) {
	h.mu.Lock()
	delete(h.sessions, c.Param("id"))
	h.mu.Unlock()
	c.Status(http.StatusNoContent)
}

// State returns the wizard position, the segments and any preview.
func (h *AdvanceHandler) State(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"step":     s.Step(),
		"segments": s.Segments(),
		"preview":  s.Preview(),
	})
}
