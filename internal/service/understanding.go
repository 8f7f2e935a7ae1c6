package service

import (
	"context"
	"fmt"
	"strings"

	"hotelsearch/internal/model"
	"hotelsearch/internal/utils"
)

// ChatCompleter sends a chat completion request to a language model
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// QueryParser implements QueryUnderstander with a language model
type QueryParser struct {
	client ChatCompleter
}

// NewQueryParser creates a new query parser
func NewQueryParser(client ChatCompleter) *QueryParser {
	return &QueryParser{client: client}
}

const understandSystemPrompt = `You are a travel search understanding engine. You extract search intent as JSON only.

Extract structured search constraints from the user's hotel query and return ONLY valid JSON:
{
  "city": string | null,
  "country": string | null,
  "hotel_type": "Luxury" | "Budget" | "Business" | "Family" | "Boutique" | "Resort" | null,
  "min_rating": number | null,
  "price_level": "cheap" | "mid" | "luxury" | null,
  "intent": string
}

Rules:
- City may appear in any form (uppercase/lowercase)
- Country may be implied
- Hotel type must match the enum exactly
- Infer intent from tone (vacation, honeymoon, business, etc.)`

// aiConstraints is the raw model output before validation
type aiConstraints struct {
	City       *string  `json:"city"`
	Country    *string  `json:"country"`
	HotelType  *string  `json:"hotel_type"`
	MinRating  *float64 `json:"min_rating"`
	PriceLevel *string  `json:"price_level"`
	Intent     *string  `json:"intent"`
}

// Understand asks the model for the constraints expressed by query
func (p *QueryParser) Understand(ctx context.Context, query string) (*model.ExtractedConstraints, error) {
	if p.client == nil {
		return nil, ErrAIDisabled
	}

	resp, err := p.client.ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: understandSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Query:\n%q", query)},
		},
		Temperature:    0,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("query understanding request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from language model")
	}

	var raw aiConstraints
	if err := utils.ParseLLMJSON(resp.Choices[0].Message.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse query understanding: %w", err)
	}

	constraints := &model.ExtractedConstraints{
		City:       nonBlank(raw.City),
		Country:    nonBlank(raw.Country),
		HotelType:  nonBlank(raw.HotelType),
		MinRating:  raw.MinRating,
		PriceLevel: nonBlank(raw.PriceLevel),
		Intent:     nonBlank(raw.Intent),
	}

	if err := validateConstraints(constraints); err != nil {
		return nil, fmt.Errorf("query understanding validation failed: %w", err)
	}

	return constraints, nil
}

// validateConstraints checks the model output against the known enumerations
func validateConstraints(c *model.ExtractedConstraints) error {
	if c.HotelType != nil && !model.ValidHotelType(*c.HotelType) {
		return fmt.Errorf("invalid hotel_type: %s", *c.HotelType)
	}

	if c.PriceLevel != nil {
		switch *c.PriceLevel {
		case model.PriceLevelCheap, model.PriceLevelMid, model.PriceLevelLuxury:
		default:
			return fmt.Errorf("invalid price_level: %s", *c.PriceLevel)
		}
	}

	if c.MinRating != nil && (*c.MinRating < 0 || *c.MinRating > 5) {
		return fmt.Errorf("min_rating must be between 0 and 5, got %v", *c.MinRating)
	}

	return nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
