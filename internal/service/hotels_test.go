package service

import (
	"context"
	"errors"
	"testing"

	"hotelsearch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotelService_GetHotel(t *testing.T) {
	store := &fakeStore{
		hotels: map[int64]model.HotelRecord{1: hotelRecord(1, "Grand Palais", "Paris", "Luxury", 500, 5)},
		rooms: map[int64][]model.RoomRecord{1: {
			{ID: 10, HotelID: 1, RoomType: "Suite", Capacity: 2, TotalRooms: 3, PricePerNight: floatPtr(900), RoomAmenities: strPtr("minibar, balcony")},
		}},
	}
	svc := NewHotelService(store, nil, 3)

	detail, err := svc.GetHotel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Grand Palais", detail.Name)
	assert.Equal(t, []string{"wifi", "pool"}, detail.Amenities)
	require.Len(t, detail.Rooms, 1)
	assert.Equal(t, []string{"minibar", "balcony"}, detail.Rooms[0].RoomAmenities)
	assert.Equal(t, 900.0, detail.Rooms[0].PricePerNight)

	_, err = svc.GetHotel(context.Background(), 2)
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestHotelService_LogEvent(t *testing.T) {
	store := &fakeStore{}
	svc := NewHotelService(store, nil, 3)

	require.NoError(t, svc.LogEvent(context.Background(), model.UserEvent{HotelID: 1, EventType: model.EventClick}))
	assert.Error(t, svc.LogEvent(context.Background(), model.UserEvent{HotelID: 1, EventType: "share"}))

	require.Len(t, store.events, 1)
	assert.Equal(t, "anon", store.events[0].UserID)
}

func TestHotelService_LogImpressionsContinuesOnError(t *testing.T) {
	store := &fakeStore{eventErr: errors.New("db down")}
	svc := NewHotelService(store, nil, 3)

	svc.LogImpressions(context.Background(), "u", "A", []model.RankedHotel{{Hotel: model.Hotel{ID: 1}}})
	assert.Empty(t, store.events)

	store.eventErr = nil
	svc.LogImpressions(context.Background(), "u", "B", []model.RankedHotel{{Hotel: model.Hotel{ID: 1}}, {Hotel: model.Hotel{ID: 2}}})
	require.Len(t, store.events, 2)
	assert.Equal(t, model.EventImpression, store.events[1].EventType)
	assert.Equal(t, "B", store.events[1].ABGroup)
}

func TestHotelService_UpdateEmbeddingsChecksDimensions(t *testing.T) {
	store := &fakeStore{}
	svc := NewHotelService(store, nil, 3)

	success, errs := svc.UpdateEmbeddings(context.Background(), []model.EmbeddingItem{
		{HotelID: 1, Embedding: []float32{1, 2, 3}},
		{HotelID: 2, Embedding: []float32{1, 2}},
	})
	assert.Equal(t, 1, success)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "hotel_id 2")
	assert.Len(t, store.embedded, 1)
}

func TestHotelService_BackfillEmbeddings(t *testing.T) {
	store := &fakeStore{missing: []model.HotelRecord{
		hotelRecord(1, "A", "Paris", "Luxury", 500, 5),
		hotelRecord(2, "B", "Rome", "Budget", 40, 3),
		hotelRecord(3, "C", "Oslo", "Business", 150, 4),
	}}
	embedder := &fakeEmbedder{fallback: []float32{0.1, 0.2, 0.3}}
	svc := NewHotelService(store, embedder, 3)

	success, errs, err := svc.BackfillEmbeddings(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, 2, success)
	require.Len(t, store.embedded, 2)
	assert.Contains(t, store.embedded[0].Text, "Luxury hotel in Paris")

	_, _, err = NewHotelService(store, nil, 3).BackfillEmbeddings(context.Background(), 2)
	assert.ErrorIs(t, err, ErrAIDisabled)
}

func TestHotelDescription(t *testing.T) {
	h := model.Hotel{
		Name:          "Grand Palais",
		City:          "Paris",
		Country:       "France",
		HotelType:     "Luxury",
		StarRating:    5,
		PricePerNight: 480,
		Amenities:     []string{"spa", "pool"},
	}
	assert.Equal(t,
		"Grand Palais. Luxury hotel in Paris, France. Rated 5.0 stars. From 480 per night. Amenities: spa, pool.",
		HotelDescription(h))

	assert.Equal(t, "Bare.", HotelDescription(model.Hotel{Name: "Bare"}))
}
