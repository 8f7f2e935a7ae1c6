package service

import (
	"context"

	"hotelsearch/internal/model"
)

// Embedder turns text into a vector in the hotel embedding space.
// Implementations must be safe for concurrent use.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbedder embeds several texts in one call, preserving order
type BatchEmbedder interface {
	Embedder
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryUnderstander extracts structured constraints from a free-text query
type QueryUnderstander interface {
	Understand(ctx context.Context, query string) (*model.ExtractedConstraints, error)
}

// VectorSearcher finds hotels semantically close to a query
type VectorSearcher interface {
	Search(ctx context.Context, params model.VectorSearchParams) (*model.VectorSearchResult, error)
}

// HotelCatalogue lists every hotel that may appear in search results
type HotelCatalogue interface {
	ListSearchableHotels(ctx context.Context) ([]model.HotelRecord, error)
}

// AvailabilitySource reports room-level availability for a hotel and date range
type AvailabilitySource interface {
	Availability(ctx context.Context, hotelID int64, checkIn, checkOut string, guests int) ([]model.RoomAvailability, error)
}

// VectorIndex runs nearest-neighbour queries over stored hotel embeddings
type VectorIndex interface {
	VectorSearch(ctx context.Context, vector []float32, params model.VectorSearchParams) ([]model.VectorCandidate, error)
}

// PreferenceSource returns a user's recent hotel interactions
type PreferenceSource interface {
	UserPreferences(ctx context.Context, userID string, days int) ([]model.PreferenceRow, error)
}

// Ensure the bundled clients implement the embedding contracts
var (
	_ BatchEmbedder = (*OpenAIClient)(nil)
	_ BatchEmbedder = (*LangChainEmbedder)(nil)
)
