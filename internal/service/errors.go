package service

import "errors"

var (
	// ErrQueryRequired is returned when a search has a missing or blank query
	ErrQueryRequired = errors.New("search query is required")

	// ErrCatalogueUnavailable is returned when the hotel catalogue cannot be loaded
	ErrCatalogueUnavailable = errors.New("hotel catalogue unavailable")

	// ErrAIDisabled is returned by AI-backed adapters when no API key is configured
	ErrAIDisabled = errors.New("OpenAI API is not enabled (missing API key)")

	// ErrHotelNotFound is returned when a hotel id does not exist
	ErrHotelNotFound = errors.New("hotel not found")
)
