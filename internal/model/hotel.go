package model

import "time"

// HotelRecord is a hotels row as stored. Amenities are kept in their raw
// storage form (JSON array or comma separated text) until normalised.
type HotelRecord struct {
	ID            int64    `db:"id"`
	Name          string   `db:"name"`
	City          *string  `db:"city"`
	Country       *string  `db:"country"`
	HotelType     *string  `db:"hotel_type"`
	PricePerNight *float64 `db:"price_per_night"`
	StarRating    *float64 `db:"star_rating"`
	Amenities     *string  `db:"amenities"`
}

// Hotel is the normalised catalogue entry used for ranking.
// Missing price or rating are represented as 0.
type Hotel struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	HotelType     string   `json:"hotel_type"`
	PricePerNight float64  `json:"price_per_night"`
	StarRating    float64  `json:"star_rating"`
	Amenities     []string `json:"amenities"`
}

// RankedHotel is a hotel as it appears in a search response.
// Scores stay zero on the rule-based path.
type RankedHotel struct {
	Hotel
	VectorScore    float64            `json:"vector_score"`
	PriceScore     float64            `json:"price_score"`
	RatingScore    float64            `json:"rating_score"`
	FinalScore     float64            `json:"final_score"`
	MatchedReasons []string           `json:"matched_reasons"`
	AvailableRooms []RoomAvailability `json:"available_rooms,omitempty"`
}

// RoomAvailability is one room-level availability record for a date range
type RoomAvailability struct {
	RoomID         int64  `json:"room_id" db:"room_id"`
	RoomType       string `json:"room_type" db:"room_type"`
	AvailableRooms int    `json:"available_rooms" db:"available_rooms"`
	Booked         int    `json:"booked" db:"booked"`
}

// HasVacancy reports whether at least one room is left unbooked
func (r RoomAvailability) HasVacancy() bool {
	return r.AvailableRooms > r.Booked
}

// RoomRecord is a rooms row as stored
type RoomRecord struct {
	ID            int64    `db:"id"`
	HotelID       int64    `db:"hotel_id"`
	RoomType      string   `db:"room_type"`
	Capacity      int      `db:"capacity"`
	TotalRooms    int      `db:"total_rooms"`
	PricePerNight *float64 `db:"price_per_night"`
	RoomAmenities *string  `db:"room_amenities"`
}

// Room is a normalised room for the hotel detail view
type Room struct {
	ID            int64    `json:"id"`
	HotelID       int64    `json:"hotel_id"`
	RoomType      string   `json:"room_type"`
	Capacity      int      `json:"capacity"`
	TotalRooms    int      `json:"total_rooms"`
	PricePerNight float64  `json:"price_per_night"`
	RoomAmenities []string `json:"room_amenities"`
}

// HotelDetail is a hotel together with its rooms
type HotelDetail struct {
	Hotel
	Rooms []Room `json:"rooms"`
}

// HotelLookup indexes hotels by id while remembering catalogue order.
// It is built once per search and never shared between requests.
type HotelLookup struct {
	byID  map[int64]Hotel
	order []int64
}

// NewHotelLookup builds a lookup; later duplicates of an id replace earlier ones
// but keep the first position.
func NewHotelLookup(hotels []Hotel) *HotelLookup {
	l := &HotelLookup{
		byID:  make(map[int64]Hotel, len(hotels)),
		order: make([]int64, 0, len(hotels)),
	}
	for _, h := range hotels {
		if _, seen := l.byID[h.ID]; !seen {
			l.order = append(l.order, h.ID)
		}
		l.byID[h.ID] = h
	}
	return l
}

// Get returns the hotel with the given id
func (l *HotelLookup) Get(id int64) (Hotel, bool) {
	if l == nil {
		return Hotel{}, false
	}
	h, ok := l.byID[id]
	return h, ok
}

// Len returns the number of distinct hotels
func (l *HotelLookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// All returns the hotels in catalogue order
func (l *HotelLookup) All() []Hotel {
	if l == nil {
		return nil
	}
	hotels := make([]Hotel, 0, len(l.order))
	for _, id := range l.order {
		hotels = append(hotels, l.byID[id])
	}
	return hotels
}

// Event types accepted for user events
const (
	EventImpression = "impression"
	EventClick      = "click"
	EventBooking    = "booking"
)

// UserEvent is a user interaction with a hotel
type UserEvent struct {
	UserID    string    `json:"user_id" db:"user_id"`
	HotelID   int64     `json:"hotel_id" db:"hotel_id"`
	EventType string    `json:"event_type" db:"event_type"`
	ABGroup   string    `json:"ab_group,omitempty" db:"ab_group"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// PreferenceRow is a user event joined with the hotel it refers to
type PreferenceRow struct {
	Name      string  `db:"name"`
	City      *string `db:"city"`
	HotelType *string `db:"hotel_type"`
	Amenities *string `db:"amenities"`
	EventType string  `db:"event_type"`
}
