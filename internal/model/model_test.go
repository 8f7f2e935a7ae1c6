package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooseInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "number", input: `3`, want: 3},
		{name: "float truncates", input: `2.9`, want: 2},
		{name: "numeric string", input: `" 4 "`, want: 4},
		{name: "negative", input: `-2`, want: -2},
		{name: "word", input: `"abc"`, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "object", input: `{"a":1}`, want: 0},
		{name: "bool", input: `true`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Page LooseInt `json:"page"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"page":`+tt.input+`}`), &got))
			assert.Equal(t, tt.want, got.Page.Int())
		})
	}
}

func TestHotelLookup(t *testing.T) {
	lookup := NewHotelLookup([]Hotel{
		{ID: 3, Name: "C"},
		{ID: 1, Name: "A"},
		{ID: 3, Name: "C2"},
	})

	assert.Equal(t, 2, lookup.Len())

	h, ok := lookup.Get(3)
	require.True(t, ok)
	assert.Equal(t, "C2", h.Name)

	_, ok = lookup.Get(99)
	assert.False(t, ok)

	all := lookup.All()
	require.Len(t, all, 2)
	assert.Equal(t, int64(3), all[0].ID)
	assert.Equal(t, int64(1), all[1].ID)

	var empty *HotelLookup
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.All())
}

func TestValidHotelType(t *testing.T) {
	assert.True(t, ValidHotelType(HotelTypeFamily))
	assert.False(t, ValidHotelType("family"))
	assert.False(t, ValidHotelType("Hostel"))
}

func TestRoomAvailability_HasVacancy(t *testing.T) {
	assert.True(t, RoomAvailability{AvailableRooms: 3, Booked: 2}.HasVacancy())
	assert.False(t, RoomAvailability{AvailableRooms: 2, Booked: 2}.HasVacancy())
}
