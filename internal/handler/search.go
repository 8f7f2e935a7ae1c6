package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"hotelsearch/internal/model"
	"hotelsearch/internal/service"

	"github.com/gin-gonic/gin"
)

// Request headers carrying caller identity
const (
	HeaderABGroup = "X-AB-Group"
	HeaderUserID  = "X-User-ID"
)

const impressionTimeout = 10 * time.Second

// Searcher runs a hotel search
type Searcher interface {
	Search(ctx context.Context, req *model.SearchRequest, sc model.SearchContext) (*model.SearchResponse, error)
	SearchStream(ctx context.Context, req *model.SearchRequest, sc model.SearchContext, callback service.SearchEventCallback) (*model.SearchResponse, error)
}

// ImpressionLogger records the hotels shown to a user
type ImpressionLogger interface {
	LogImpressions(ctx context.Context, userID, abGroup string, hotels []model.RankedHotel)
}

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	searcher        Searcher
	impressions     ImpressionLogger
	defaultPageSize int
	maxPageSize     int
}

// NewSearchHandler creates a new search handler. impressions may be nil.
func NewSearchHandler(searcher Searcher, impressions ImpressionLogger, defaultPageSize, maxPageSize int) *SearchHandler {
	return &SearchHandler{
		searcher:        searcher,
		impressions:     impressions,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// bindSearch decodes the body and applies the page size bounds
func (h *SearchHandler) bindSearch(c *gin.Context) (*model.SearchRequest, model.SearchContext, bool) {
	var req model.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, model.SearchContext{}, false
	}

	if req.PageSize <= 0 && h.defaultPageSize > 0 {
		req.PageSize = model.LooseInt(h.defaultPageSize)
	}
	if h.maxPageSize > 0 && req.PageSize.Int() > h.maxPageSize {
		req.PageSize = model.LooseInt(h.maxPageSize)
	}

	sc := model.SearchContext{
		UserID:  c.GetHeader(HeaderUserID),
		ABGroup: c.GetHeader(HeaderABGroup),
	}
	return &req, sc, true
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	req, sc, ok := h.bindSearch(c)
	if !ok {
		return
	}

	response, err := h.searcher.Search(c.Request.Context(), req, sc)
	if err != nil {
		if errors.Is(err, service.ErrQueryRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("❌ Search failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	h.logImpressions(c.Request.Context(), sc, response)
	c.JSON(http.StatusOK, response)
}

// logImpressions records the returned hotels without holding up the response
func (h *SearchHandler) logImpressions(ctx context.Context, sc model.SearchContext, response *model.SearchResponse) {
	if h.impressions == nil || len(response.Hotels) == 0 {
		return
	}
	hotels := response.Hotels
	abGroup := response.ABGroup
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), impressionTimeout)
		defer cancel()
		h.impressions.LogImpressions(ctx, sc.UserID, abGroup, hotels)
	}()
}

// SearchStream handles POST /api/v1/search/stream - SSE streaming search
func (h *SearchHandler) SearchStream(c *gin.Context) {
	req, sc, ok := h.bindSearch(c)
	if !ok {
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}
	c.Status(http.StatusOK)

	response, err := h.searcher.SearchStream(c.Request.Context(), req, sc, func(event string, data any) error {
		if err := c.Request.Context().Err(); err != nil {
			return err
		}
		sendSSE(c, event, data)
		flusher.Flush()
		return nil
	})
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	h.logImpressions(c.Request.Context(), sc, response)

	sendSSE(c, "results", response)
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, jsonData)
}
