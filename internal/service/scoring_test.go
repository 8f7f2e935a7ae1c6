package service

import (
	"testing"

	"hotelsearch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLookup(hotels ...model.Hotel) *model.HotelLookup {
	return model.NewHotelLookup(hotels)
}

func TestBuildHybridScores_GroupAFormula(t *testing.T) {
	lookup := testLookup(
		model.Hotel{ID: 1, Name: "One", PricePerNight: 100, StarRating: 4},
		model.Hotel{ID: 2, Name: "Two", PricePerNight: 50, StarRating: 5},
	)
	candidates := []model.VectorCandidate{{HotelID: 1, Score: 0.9}, {HotelID: 2, Score: 0.2}}

	ranked := BuildHybridScores(candidates, lookup, model.IntentSignals{}, "A")
	require.Len(t, ranked, 2)

	assert.Equal(t, int64(1), ranked[0].ID)
	assert.InDelta(t, 0.6*0.9+0.25*0.8+0.15*0.01, ranked[0].FinalScore, 1e-12)
	assert.InDelta(t, 0.8, ranked[0].RatingScore, 1e-12)
	assert.InDelta(t, 0.01, ranked[0].PriceScore, 1e-12)

	assert.Equal(t, int64(2), ranked[1].ID)
	assert.InDelta(t, 0.6*0.2+0.25*1+0.15*0.02, ranked[1].FinalScore, 1e-12)
}

func TestBuildHybridScores_GroupBAndIntentBoost(t *testing.T) {
	lookup := testLookup(model.Hotel{ID: 1, PricePerNight: 200, StarRating: 3})
	signals := model.IntentSignals{
		model.IntentBudget:   0.5,
		model.IntentComfort:  0.25,
		model.IntentLuxury:   1,
		model.IntentFamily:   0.9,
		model.IntentRomantic: 0.9,
	}

	ranked := BuildHybridScores([]model.VectorCandidate{{HotelID: 1, Score: 0.4}}, lookup, signals, "B")
	require.Len(t, ranked, 1)

	want := 0.5*0.4 + 0.3*0.6 + 0.2*(1.0/200) + 0.05*0.5 + 0.04*0.25 + 0.03*1
	assert.InDelta(t, want, ranked[0].FinalScore, 1e-12)
}

func TestBuildHybridScores_UnknownGroupUsesA(t *testing.T) {
	lookup := testLookup(model.Hotel{ID: 1, PricePerNight: 100, StarRating: 5})
	a := BuildHybridScores([]model.VectorCandidate{{HotelID: 1, Score: 0.5}}, lookup, nil, "A")
	z := BuildHybridScores([]model.VectorCandidate{{HotelID: 1, Score: 0.5}}, lookup, nil, "Z")
	assert.Equal(t, a[0].FinalScore, z[0].FinalScore)
}

func TestBuildHybridScores_DropsUnknownAndHandlesMissingValues(t *testing.T) {
	lookup := testLookup(model.Hotel{ID: 1})
	ranked := BuildHybridScores([]model.VectorCandidate{{HotelID: 1, Score: 0.5}, {HotelID: 99, Score: 1}}, lookup, nil, "A")

	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].PriceScore)
	assert.Equal(t, 0.0, ranked[0].RatingScore)
	assert.InDelta(t, 0.3, ranked[0].FinalScore, 1e-12)
}

func TestBuildHybridScores_EmptyInputs(t *testing.T) {
	lookup := testLookup(model.Hotel{ID: 1})

	out := BuildHybridScores(nil, lookup, nil, "A")
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out = BuildHybridScores([]model.VectorCandidate{{HotelID: 1, Score: 1}}, nil, nil, "A")
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestBuildHybridScores_SortedDescendingAndStable(t *testing.T) {
	lookup := testLookup(
		model.Hotel{ID: 1, PricePerNight: 100, StarRating: 3},
		model.Hotel{ID: 2, PricePerNight: 100, StarRating: 3},
		model.Hotel{ID: 3, PricePerNight: 80, StarRating: 4},
		model.Hotel{ID: 4, PricePerNight: 300, StarRating: 2},
	)
	candidates := []model.VectorCandidate{
		{HotelID: 4, Score: 0.1},
		{HotelID: 2, Score: 0.5},
		{HotelID: 1, Score: 0.5},
		{HotelID: 3, Score: 0.7},
	}

	ranked := BuildHybridScores(candidates, lookup, nil, "A")
	require.Len(t, ranked, 4)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].FinalScore, ranked[i].FinalScore)
	}
	// ties keep candidate order
	assert.Equal(t, []int64{3, 2, 1, 4}, []int64{ranked[0].ID, ranked[1].ID, ranked[2].ID, ranked[3].ID})
}
