package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hotelsearch/internal/model"
	"hotelsearch/internal/utils"
)

// HotelStore is the persistence needed outside the search pipeline
type HotelStore interface {
	GetHotelByID(ctx context.Context, id int64) (*model.HotelRecord, error)
	GetRoomsByHotelID(ctx context.Context, hotelID int64) ([]model.RoomRecord, error)
	LogEvent(ctx context.Context, event model.UserEvent) error
	LogImpressions(ctx context.Context, userID, abGroup string, hotelIDs []int64) error
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	ListHotelsMissingEmbedding(ctx context.Context, limit int) ([]model.HotelRecord, error)
}

// HotelService serves hotel details, user events and embedding maintenance
type HotelService struct {
	store      HotelStore
	embedder   BatchEmbedder
	dimensions int
}

// NewHotelService creates a hotel service. embedder may be nil, in which
// case backfilling is unavailable.
func NewHotelService(store HotelStore, embedder BatchEmbedder, dimensions int) *HotelService {
	return &HotelService{
		store:      store,
		embedder:   embedder,
		dimensions: dimensions,
	}
}

// Dimensions returns the expected embedding length
func (s *HotelService) Dimensions() int {
	return s.dimensions
}

// GetHotel returns a hotel with its rooms or ErrHotelNotFound
func (s *HotelService) GetHotel(ctx context.Context, id int64) (*model.HotelDetail, error) {
	record, err := s.store.GetHotelByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	if record == nil {
		return nil, ErrHotelNotFound
	}

	rooms, err := s.store.GetRoomsByHotelID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}

	detail := &model.HotelDetail{
		Hotel: HotelFromRecord(*record),
		Rooms: make([]model.Room, 0, len(rooms)),
	}
	for _, r := range rooms {
		detail.Rooms = append(detail.Rooms, model.Room{
			ID:            r.ID,
			HotelID:       r.HotelID,
			RoomType:      r.RoomType,
			Capacity:      r.Capacity,
			TotalRooms:    r.TotalRooms,
			PricePerNight: finiteOrZero(deref(r.PricePerNight)),
			RoomAmenities: utils.NormalizeAmenities(r.RoomAmenities),
		})
	}
	return detail, nil
}

// ValidEventType reports whether t is an accepted user event type
func ValidEventType(t string) bool {
	switch t {
	case model.EventImpression, model.EventClick, model.EventBooking:
		return true
	}
	return false
}

// LogEvent records a user interaction
func (s *HotelService) LogEvent(ctx context.Context, event model.UserEvent) error {
	if !ValidEventType(event.EventType) {
		return fmt.Errorf("invalid event type %q", event.EventType)
	}
	if event.UserID == "" {
		event.UserID = anonymousUser
	}
	return s.store.LogEvent(ctx, event)
}

// LogImpressions records one impression per returned hotel. Failures are
// logged and dropped.
func (s *HotelService) LogImpressions(ctx context.Context, userID, abGroup string, hotels []model.RankedHotel) {
	if len(hotels) == 0 {
		return
	}
	if userID == "" {
		userID = anonymousUser
	}
	hotelIDs := make([]int64, len(hotels))
	for i, h := range hotels {
		hotelIDs[i] = h.ID
	}
	if err := s.store.LogImpressions(ctx, userID, abGroup, hotelIDs); err != nil {
		log.Printf("[WARN] ⚠️  Failed to log %d impressions: %v", len(hotelIDs), err)
	}
}

// UpdateEmbeddings validates and stores precomputed hotel embeddings
func (s *HotelService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	valid := make([]model.EmbeddingItem, 0, len(items))
	var errs []string
	for _, item := range items {
		if s.dimensions > 0 && len(item.Embedding) != s.dimensions {
			errs = append(errs, fmt.Sprintf("hotel_id %d: expected %d dimensions, got %d",
				item.HotelID, s.dimensions, len(item.Embedding)))
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return 0, errs
	}

	success, storeErrs := s.store.BatchUpdateEmbeddings(ctx, valid)
	return success, append(errs, storeErrs...)
}

// BackfillEmbeddings embeds up to limit hotels that have no embedding yet and
// returns how many were stored
func (s *HotelService) BackfillEmbeddings(ctx context.Context, limit int) (int, []string, error) {
	if s.embedder == nil {
		return 0, nil, ErrAIDisabled
	}

	records, err := s.store.ListHotelsMissingEmbedding(ctx, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	if len(records) == 0 {
		return 0, nil, nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = HotelDescription(HotelFromRecord(r))
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to embed hotels: %w", err)
	}
	if len(vectors) != len(records) {
		return 0, nil, fmt.Errorf("embedder returned %d vectors for %d hotels", len(vectors), len(records))
	}

	items := make([]model.EmbeddingItem, len(records))
	for i, r := range records {
		items[i] = model.EmbeddingItem{HotelID: r.ID, Embedding: vectors[i], Text: texts[i]}
	}

	success, errs := s.UpdateEmbeddings(ctx, items)
	log.Printf("✅ Backfilled %d/%d hotel embeddings", success, len(items))
	return success, errs, nil
}

// HotelDescription is the text embedded for a hotel
func HotelDescription(h model.Hotel) string {
	var b strings.Builder
	b.WriteString(h.Name)
	if h.HotelType != "" {
		fmt.Fprintf(&b, ". %s hotel", h.HotelType)
	}
	if h.City != "" {
		fmt.Fprintf(&b, " in %s", h.City)
		if h.Country != "" {
			fmt.Fprintf(&b, ", %s", h.Country)
		}
	}
	b.WriteString(".")
	if h.StarRating > 0 {
		fmt.Fprintf(&b, " Rated %.1f stars.", h.StarRating)
	}
	if h.PricePerNight > 0 {
		fmt.Fprintf(&b, " From %.0f per night.", h.PricePerNight)
	}
	if len(h.Amenities) > 0 {
		fmt.Fprintf(&b, " Amenities: %s.", strings.Join(h.Amenities, ", "))
	}
	return b.String()
}
