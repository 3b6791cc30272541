// README: Shared handler helpers: error mapping and date parsing.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ebaggage/internal/modules/travel"
)

// respondError maps domain errors onto HTTP status codes. Validation
// failures are the user's to fix; everything else is a 500.
func respondError(c *gin.Context, err error) {
	if travel.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func respondNotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
