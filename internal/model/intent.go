package model

// Hotel types recognised by query understanding
const (
	HotelTypeLuxury   = "Luxury"
	HotelTypeBudget   = "Budget"
	HotelTypeBusiness = "Business"
	HotelTypeFamily   = "Family"
	HotelTypeBoutique = "Boutique"
	HotelTypeResort   = "Resort"
)

// ValidHotelType reports whether t is one of the known hotel types
func ValidHotelType(t string) bool {
	switch t {
	case HotelTypeLuxury, HotelTypeBudget, HotelTypeBusiness,
		HotelTypeFamily, HotelTypeBoutique, HotelTypeResort:
		return true
	}
	return false
}

// Price levels recognised by query understanding
const (
	PriceLevelCheap  = "cheap"
	PriceLevelMid    = "mid"
	PriceLevelLuxury = "luxury"
)

// ExtractedConstraints is the structured reading of a free-text query.
// Every field is optional; nil means unconstrained.
type ExtractedConstraints struct {
	City       *string  `json:"city,omitempty"`
	Country    *string  `json:"country,omitempty"`
	HotelType  *string  `json:"hotel_type,omitempty"`
	MinRating  *float64 `json:"min_rating,omitempty"`
	PriceLevel *string  `json:"price_level,omitempty"`
	Intent     *string  `json:"intent,omitempty"`
}

// Intent names scored by the intent estimator
const (
	IntentBudget   = "budget"
	IntentLuxury   = "luxury"
	IntentComfort  = "comfort"
	IntentFamily   = "family"
	IntentBusiness = "business"
	IntentRomantic = "romantic"
)

// IntentSignals maps intent names to cosine similarity in [-1, 1]
type IntentSignals map[string]float64

// Get returns the signal for intent, 0 when absent
func (s IntentSignals) Get(intent string) float64 {
	return s[intent]
}

// VectorCandidate is one hit from the vector index
type VectorCandidate struct {
	HotelID int64   `json:"hotel_id" db:"hotel_id"`
	Score   float64 `json:"score" db:"score"`
}

// VectorSearchParams are the inputs of a semantic search
type VectorSearchParams struct {
	Query     string
	City      *string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	UserID    string
	Limit     int
}

// VectorSearchResult is what the vector search adapter returns.
// QueryEmbedding is nil when the adapter could not provide it.
type VectorSearchResult struct {
	Candidates     []VectorCandidate
	QueryEmbedding []float32
}
