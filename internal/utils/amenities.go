package utils

import (
	"encoding/json"
	"strings"
)

// NormalizeAmenities turns a stored amenities value into an ordered list.
// A JSON array is decoded as is; anything else is treated as comma
// separated text. Blank entries are dropped and nil becomes an empty list.
func NormalizeAmenities(raw *string) []string {
	if raw == nil {
		return []string{}
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return []string{}
	}

	var parsed []any
	if err := json.Unmarshal([]byte(value), &parsed); err == nil {
		amenities := make([]string, 0, len(parsed))
		for _, item := range parsed {
			s, ok := item.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				amenities = append(amenities, s)
			}
		}
		return amenities
	}

	parts := strings.Split(value, ",")
	amenities := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			amenities = append(amenities, part)
		}
	}
	return amenities
}
