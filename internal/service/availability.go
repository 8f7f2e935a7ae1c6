package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"hotelsearch/internal/model"

	"github.com/panjf2000/ants/v2"
)

// AvailabilityFilter keeps only hotels with at least one unbooked room for a
// stay. Lookups run concurrently on a bounded worker pool.
type AvailabilityFilter struct {
	source AvailabilitySource
	pool   *ants.Pool
}

// NewAvailabilityFilter creates a filter backed by source using at most
// workers concurrent lookups
func NewAvailabilityFilter(source AvailabilitySource, workers int) (*AvailabilityFilter, error) {
	if source == nil {
		return nil, fmt.Errorf("availability source is required")
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability pool: %w", err)
	}

	return &AvailabilityFilter{source: source, pool: pool}, nil
}

// Release stops the worker pool
func (f *AvailabilityFilter) Release() {
	f.pool.Release()
}

// Check returns the hotels that have a room with available_rooms > booked,
// in their input order, each carrying the records it was judged on. It
// never fails; a lookup error counts as no availability for that hotel.
func (f *AvailabilityFilter) Check(ctx context.Context, hotels []model.RankedHotel, checkIn, checkOut string, guests int) []model.RankedHotel {
	if len(hotels) == 0 {
		return []model.RankedHotel{}
	}
	if guests < 1 {
		guests = 1
	}

	records := make([][]model.RoomAvailability, len(hotels))
	var wg sync.WaitGroup

	for i := range hotels {
		lookup := func() {
			defer wg.Done()
			records[i] = f.lookup(ctx, hotels[i].ID, checkIn, checkOut, guests)
		}

		wg.Add(1)
		if err := f.pool.Submit(lookup); err != nil {
			// pool closed or saturated in non-blocking mode
			lookup()
		}
	}
	wg.Wait()

	available := make([]model.RankedHotel, 0, len(hotels))
	for i, hotel := range hotels {
		if !anyVacancy(records[i]) {
			continue
		}
		hotel.AvailableRooms = records[i]
		available = append(available, hotel)
	}

	return available
}

func (f *AvailabilityFilter) lookup(ctx context.Context, hotelID int64, checkIn, checkOut string, guests int) []model.RoomAvailability {
	rooms, err := f.source.Availability(ctx, hotelID, checkIn, checkOut, guests)
	if err != nil {
		log.Printf("[WARN] ⚠️  Availability lookup failed for hotel %d: %v", hotelID, err)
		return nil
	}
	return rooms
}

func anyVacancy(rooms []model.RoomAvailability) bool {
	for _, r := range rooms {
		if r.HasVacancy() {
			return true
		}
	}
	return false
}
