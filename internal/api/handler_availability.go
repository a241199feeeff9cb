package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-concierge/internal/calendar"
)

// GetAvailability handles the GET /api/availability request.
func (h *Handler) GetAvailability(c *gin.Context) {
	days, err := h.store.AvailableDays(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve availability"})
		return
	}
	if days == nil {
		days = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"available_days": days})
}

type putAvailabilityRequest struct {
	Days      []string `json:"days" binding:"required"`
	TimeSlots []string `json:"time_slots"`
}

// PutAvailability handles the PUT /api/availability request. Days must be
// 3-letter weekday abbreviations; they are validated here, at the store
// boundary, rather than trusted downstream.
func (h *Handler) PutAvailability(c *gin.Context) {
	var req putAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, d := range req.Days {
		if calendar.FullDayName(d) == d {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown day abbreviation: " + d})
			return
		}
	}

	if err := h.store.SetAvailability(c.Request.Context(), req.Days, req.TimeSlots); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
