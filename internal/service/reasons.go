package service

import (
	"strings"

	"hotelsearch/internal/model"
)

// Match reason constants
const (
	ReasonSemanticMatch  = "Semantic match"
	ReasonHighlyRated    = "Highly rated"
	ReasonGreatValue     = "Great value"
	ReasonCityMatch      = "City match"
	ReasonHotelTypeMatch = "Hotel type match"
	ReasonGeneralMatch   = "General match"
)

const (
	semanticReasonThreshold = 0.5
	highlyRatedThreshold    = 4.5
	greatValuePrice         = 100.0
)

// annotateReasons fills MatchedReasons on every hotel in place
func annotateReasons(hotels []model.RankedHotel, constraints *model.ExtractedConstraints) {
	for i := range hotels {
		hotels[i].MatchedReasons = matchedReasons(hotels[i], constraints)
	}
}

// matchedReasons explains in plain words why a hotel was returned
func matchedReasons(h model.RankedHotel, constraints *model.ExtractedConstraints) []string {
	reasons := []string{}

	if h.VectorScore >= semanticReasonThreshold {
		reasons = append(reasons, ReasonSemanticMatch)
	}

	if constraints != nil {
		if city := strings.TrimSpace(deref(constraints.City)); city != "" && strings.EqualFold(h.City, city) {
			reasons = append(reasons, ReasonCityMatch)
		}
		if t := deref(constraints.HotelType); t != "" && h.HotelType == t {
			reasons = append(reasons, ReasonHotelTypeMatch)
		}
	}

	if h.StarRating >= highlyRatedThreshold {
		reasons = append(reasons, ReasonHighlyRated)
	}

	if h.PricePerNight > 0 && h.PricePerNight <= greatValuePrice {
		reasons = append(reasons, ReasonGreatValue)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}
