// README: Order history handlers: list, get, status updates, cancellation.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebaggage/internal/modules/orders"
	"ebaggage/internal/modules/travel"
)

type OrderHandler struct {
	store *orders.Store
}

func NewOrderHandler(store *orders.Store) *OrderHandler {
	return &OrderHandler{store: store}
}

// List returns orders newest-first, optionally filtered by user email.
func (h *OrderHandler) List(c *gin.Context) {
	if user := c.Query("user"); user != "" {
		c.JSON(http.StatusOK, gin.H{"orders": h.store.OrdersByUser(user)})
		return
	}
	reverse := c.DefaultQuery("sort", "desc") == "desc"
	c.JSON(http.StatusOK, gin.H{"orders": h.store.OrdersSortedByDate(reverse)})
}

func (h *OrderHandler) Get(c *gin.Context) {
	rec, ok := h.store.OrderByID(c.Param("id"))
	if !ok {
		respondNotFound(c, "order not found")
		return
	}
	c.JSON(http.StatusOK, rec)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order through its lifecycle. Trip-status records
// only accept moves the transition table allows.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing status"})
		return
	}

	rec, ok := h.store.OrderByID(c.Param("id"))
	if !ok {
		respondNotFound(c, "order not found")
		return
	}
	current := travel.TripStatus(rec.Status)
	next := travel.TripStatus(req.Status)
	// Repeating the current status is a no-op, not a violation.
	if current.Known() && next.Known() && next != current && !travel.CanTransition(current, next) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "cannot move order from " + rec.Status + " to " + req.Status})
		return
	}

	updated, err := h.store.UpdateOrderStatus(rec.Identifier(), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if !updated {
		respondNotFound(c, "order not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.Identifier(), "status": req.Status})
}

// Cancel is a convenience wrapper around UpdateStatus("cancelled").
func (h *OrderHandler) Cancel(c *gin.Context) {
	rec, ok := h.store.OrderByID(c.Param("id"))
	if !ok {
		respondNotFound(c, "order not found")
		return
	}
	current := travel.TripStatus(rec.Status)
	if current.Known() && current != travel.TripCancelled && !travel.CanTransition(current, travel.TripCancelled) {
		c.JSON(http.StatusConflict, gin.H{"error": "order can no longer be cancelled"})
		return
	}
	if _, err := h.store.UpdateOrderStatus(rec.Identifier(), string(travel.TripCancelled)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.Identifier(), "status": string(travel.TripCancelled)})
}

// Hotels serves the hotel lookup tables used by the advance wizard.
func (h *OrderHandler) Hotels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hotels":         h.store.Hotels(),
		"partner_hotels": h.store.PartnerHotels(),
	})
}
