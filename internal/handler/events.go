package handler

import (
	"context"
	"net/http"

	"hotelsearch/internal/model"
	"hotelsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// EventLogger records user interactions
type EventLogger interface {
	LogEvent(ctx context.Context, event model.UserEvent) error
}

// EventHandler handles user event submissions
type EventHandler struct {
	events EventLogger
}

// NewEventHandler creates a new event handler
func NewEventHandler(events EventLogger) *EventHandler {
	return &EventHandler{events: events}
}

// Submit handles POST /api/v1/events
func (h *EventHandler) Submit(c *gin.Context) {
	var req model.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !service.ValidEventType(req.EventType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_type. Must be one of: impression, click, booking"})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = c.GetHeader(HeaderUserID)
	}

	err := h.events.LogEvent(c.Request.Context(), model.UserEvent{
		UserID:    userID,
		HotelID:   req.HotelID,
		EventType: req.EventType,
		ABGroup:   c.GetHeader(HeaderABGroup),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.EventResponse{
		Success: true,
		Message: "Event logged successfully",
	})
}
