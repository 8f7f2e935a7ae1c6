package service

import (
	"math"
	"sort"

	"hotelsearch/internal/model"
)

// weightProfile is the linear blend used for one A/B group
type weightProfile struct {
	vector float64
	rating float64
	price  float64
}

var (
	weightsGroupA = weightProfile{vector: 0.6, rating: 0.25, price: 0.15}
	weightsGroupB = weightProfile{vector: 0.5, rating: 0.3, price: 0.2}
)

// Soft boosts applied per intent signal. Family, business and romantic
// signals are computed but not weighted.
const (
	boostBudget  = 0.05
	boostComfort = 0.04
	boostLuxury  = 0.03
)

func weightsFor(abGroup string) weightProfile {
	if abGroup == "B" {
		return weightsGroupB
	}
	return weightsGroupA
}

// BuildHybridScores blends vector relevance with rating, price and intent
// signals and returns the candidates best first. Candidates whose hotel is
// not in lookup are dropped. Equal scores keep candidate order.
func BuildHybridScores(
	candidates []model.VectorCandidate,
	lookup *model.HotelLookup,
	signals model.IntentSignals,
	abGroup string,
) []model.RankedHotel {
	if len(candidates) == 0 || lookup.Len() == 0 {
		return []model.RankedHotel{}
	}

	w := weightsFor(abGroup)
	intentBoost := boostBudget*signals.Get(model.IntentBudget) +
		boostComfort*signals.Get(model.IntentComfort) +
		boostLuxury*signals.Get(model.IntentLuxury)

	results := make([]model.RankedHotel, 0, len(candidates))
	for _, c := range candidates {
		hotel, ok := lookup.Get(c.HotelID)
		if !ok {
			continue
		}

		vectorScore := finiteOrZero(c.Score)
		priceScore := inversePriceScore(hotel.PricePerNight)
		ratingScore := hotel.StarRating / 5

		results = append(results, model.RankedHotel{
			Hotel:       hotel,
			VectorScore: vectorScore,
			PriceScore:  priceScore,
			RatingScore: ratingScore,
			FinalScore: w.vector*vectorScore +
				w.rating*ratingScore +
				w.price*priceScore +
				intentBoost,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	return results
}

// inversePriceScore is 1/price, or 0 when the price is unknown.
// It is deliberately not normalised.
func inversePriceScore(price float64) float64 {
	if price == 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return 1 / price
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
