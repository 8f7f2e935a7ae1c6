package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hotelsearch/internal/model"
	"hotelsearch/internal/utils"
)

// Blend of query and preference vectors for personalised search
const (
	queryVectorWeight      = 0.8
	preferenceVectorWeight = 0.2
	maxPreferenceSentences = 20
	anonymousUser          = "anon"
)

// SemanticSearcher implements VectorSearcher: it embeds the query, optionally
// steers it towards the user's past preferences and queries the vector index.
type SemanticSearcher struct {
	embedder       Embedder
	index          VectorIndex
	preferences    PreferenceSource
	preferenceDays int
}

// NewSemanticSearcher creates a searcher. preferences may be nil.
func NewSemanticSearcher(embedder Embedder, index VectorIndex, preferences PreferenceSource, preferenceDays int) *SemanticSearcher {
	return &SemanticSearcher{
		embedder:       embedder,
		index:          index,
		preferences:    preferences,
		preferenceDays: preferenceDays,
	}
}

// Search returns the nearest hotels and the plain query embedding
func (s *SemanticSearcher) Search(ctx context.Context, params model.VectorSearchParams) (*model.VectorSearchResult, error) {
	queryEmbedding, err := s.embedder.EmbedText(ctx, params.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	searchVector := s.personalise(ctx, queryEmbedding, params.UserID)

	candidates, err := s.index.VectorSearch(ctx, searchVector, params)
	if err != nil {
		return nil, fmt.Errorf("vector index search: %w", err)
	}

	return &model.VectorSearchResult{
		Candidates:     candidates,
		QueryEmbedding: queryEmbedding,
	}, nil
}

// personalise returns the query vector blended with the user's preference
// vector, or a copy of the query vector when no preferences are available
func (s *SemanticSearcher) personalise(ctx context.Context, query []float32, userID string) []float32 {
	vector := append([]float32(nil), query...)
	if s.preferences == nil || userID == "" || userID == anonymousUser {
		return vector
	}

	rows, err := s.preferences.UserPreferences(ctx, userID, s.preferenceDays)
	if err != nil {
		log.Printf("[WARN] ⚠️  Loading preferences for user %s failed: %v", userID, err)
		return vector
	}

	texts := PreferenceTexts(rows)
	if len(texts) == 0 {
		return vector
	}
	if len(texts) > maxPreferenceSentences {
		texts = texts[:maxPreferenceSentences]
	}

	preference, err := s.embedder.EmbedText(ctx, strings.Join(texts, "\n"))
	if err != nil || len(preference) != len(query) {
		log.Printf("[WARN] ⚠️  Embedding preferences for user %s failed: %v", userID, err)
		return vector
	}

	for i := range vector {
		vector[i] = queryVectorWeight*vector[i] + preferenceVectorWeight*preference[i]
	}
	return utils.Normalize(vector)
}

// PreferenceTexts describes each past interaction as one sentence
func PreferenceTexts(rows []model.PreferenceRow) []string {
	texts := make([]string, 0, len(rows))
	for _, r := range rows {
		weight := "viewed"
		switch r.EventType {
		case model.EventBooking:
			weight = "strongly prefers"
		case model.EventClick:
			weight = "likes"
		}

		sentence := fmt.Sprintf("User %s %s hotels in %s.", weight, orUnknown(r.HotelType), orUnknown(r.City))
		if amenities := utils.NormalizeAmenities(r.Amenities); len(amenities) > 0 {
			sentence += " Amenities: " + strings.Join(amenities, ", ") + "."
		}
		texts = append(texts, sentence)
	}
	return texts
}

func orUnknown(s *string) string {
	if v := strings.TrimSpace(deref(s)); v != "" {
		return v
	}
	return "any"
}
