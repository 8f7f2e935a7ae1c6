package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"hotelsearch/internal/model"
	"hotelsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// HotelReader loads hotel details
type HotelReader interface {
	GetHotel(ctx context.Context, id int64) (*model.HotelDetail, error)
}

// HotelHandler handles hotel detail requests
type HotelHandler struct {
	hotels HotelReader
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotels HotelReader) *HotelHandler {
	return &HotelHandler{hotels: hotels}
}

// GetHotel handles GET /api/v1/hotels/:id
func (h *HotelHandler) GetHotel(c *gin.Context) {
	hotelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || hotelID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	hotel, err := h.hotels.GetHotel(c.Request.Context(), hotelID)
	if err != nil {
		if errors.Is(err, service.ErrHotelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get hotel: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, hotel)
}
