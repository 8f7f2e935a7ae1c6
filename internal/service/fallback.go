package service

import (
	"sort"
	"strings"

	"hotelsearch/internal/model"
)

// FallbackCriteria are the rule-based filters used when semantic ranking
// produced nothing. Nil, empty or zero values do not filter.
type FallbackCriteria struct {
	City      *string
	HotelType *string
	MinRating *float64
}

// FallbackRank filters the whole catalogue by city (case-insensitive),
// exact hotel type and minimum rating, then orders by rating and, among
// equal ratings, by price, both descending.
func FallbackRank(lookup *model.HotelLookup, criteria FallbackCriteria) []model.RankedHotel {
	city := strings.TrimSpace(deref(criteria.City))
	hotelType := deref(criteria.HotelType)
	var minRating float64
	if criteria.MinRating != nil {
		minRating = *criteria.MinRating
	}

	results := []model.RankedHotel{}
	for _, hotel := range lookup.All() {
		if city != "" && !strings.EqualFold(strings.TrimSpace(hotel.City), city) {
			continue
		}
		if hotelType != "" && hotel.HotelType != hotelType {
			continue
		}
		if minRating != 0 && hotel.StarRating < minRating {
			continue
		}
		results = append(results, model.RankedHotel{Hotel: hotel})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Hotel, results[j].Hotel
		if a.StarRating != b.StarRating {
			return a.StarRating > b.StarRating
		}
		return a.PricePerNight > b.PricePerNight
	})

	return results
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
