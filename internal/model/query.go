package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SearchRequest represents a hotel search request
type SearchRequest struct {
	Query     string   `json:"query"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	CheckIn   string   `json:"check_in,omitempty"`
	CheckOut  string   `json:"check_out,omitempty"`
	Guests    LooseInt `json:"guests,omitempty"`
	Page      LooseInt `json:"page,omitempty"`
	PageSize  LooseInt `json:"page_size,omitempty"`
}

// SearchContext carries caller identity for a search
type SearchContext struct {
	UserID  string
	ABGroup string
}

// SearchResponse is the ranked result envelope
type SearchResponse struct {
	Success        bool                  `json:"success"`
	SearchID       string                `json:"search_id"`
	Query          string                `json:"query"`
	ABGroup        string                `json:"ab_group"`
	UsedSemantic   bool                  `json:"used_semantic"`
	Extracted      *ExtractedConstraints `json:"extracted"`
	IntentSignals  IntentSignals         `json:"intent_signals"`
	DegradedStages []string              `json:"degraded_stages"`
	TotalResults   int                   `json:"total_results"`
	Page           int                   `json:"page"`
	PageSize       int                   `json:"page_size"`
	Hotels         []RankedHotel         `json:"hotels"`
	Took           int64                 `json:"took_ms"`
}

// LooseInt decodes a JSON number or numeric string. Anything else,
// including null, objects and non-numeric strings, decodes to 0.
type LooseInt int

// UnmarshalJSON implements json.Unmarshaler
func (n *LooseInt) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		raw = strings.TrimSpace(raw)
	} else {
		raw = string(data)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	if f < math.MinInt32 {
		f = math.MinInt32
	}
	*n = LooseInt(f)
	return nil
}

// Int returns the value as int
func (n LooseInt) Int() int {
	return int(n)
}

// EventRequest represents a user event submission
type EventRequest struct {
	UserID    string `json:"user_id"`
	HotelID   int64  `json:"hotel_id" binding:"required"`
	EventType string `json:"event_type" binding:"required"`
}

// EventResponse represents the event submission result
type EventResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem represents a single embedding for a hotel
type EmbeddingItem struct {
	HotelID   int64     `json:"hotel_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
	Text      string    `json:"text,omitempty"` // The text used to generate embedding
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
