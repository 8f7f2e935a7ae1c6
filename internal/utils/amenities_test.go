package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNormalizeAmenities(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{name: "nil", raw: nil, want: []string{}},
		{name: "blank", raw: strPtr("   "), want: []string{}},
		{name: "JSON array", raw: strPtr(`["WiFi", "Pool", " Spa "]`), want: []string{"WiFi", "Pool", "Spa"}},
		{name: "JSON array with junk", raw: strPtr(`["WiFi", 3, null, ""]`), want: []string{"WiFi"}},
		{name: "comma separated", raw: strPtr("WiFi, Pool,,Gym "), want: []string{"WiFi", "Pool", "Gym"}},
		{name: "JSON object falls back to text", raw: strPtr(`{"a":1}`), want: []string{`{"a":1}`}},
		{name: "single value", raw: strPtr("Parking"), want: []string{"Parking"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAmenities(tt.raw))
		})
	}
}
