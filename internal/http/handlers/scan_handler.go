// README: Luggage scan handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ebaggage/internal/scan"
)

type ScanHandler struct {
	scanner *scan.Service
}

func NewScanHandler(scanner *scan.Service) *ScanHandler {
	return &ScanHandler{scanner: scanner}
}

type scanReq struct {
	UserEmail   string `json:"user_email"`
	ScannedBy   string `json:"scanned_by"`
	Description string `json:"description"`
}

func (h *ScanHandler) Scan(c *gin.Context) {
	var req scanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing luggage description"})
		return
	}
	result, err := h.scanner.ScanAndRecord(c.Request.Context(), req.UserEmail, req.ScannedBy, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
