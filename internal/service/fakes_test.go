package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hotelsearch/internal/model"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func hotelRecord(id int64, name, city, hotelType string, price, rating float64) model.HotelRecord {
	return model.HotelRecord{
		ID:            id,
		Name:          name,
		City:          strPtr(city),
		HotelType:     strPtr(hotelType),
		PricePerNight: floatPtr(price),
		StarRating:    floatPtr(rating),
		Amenities:     strPtr(`["wifi","pool"]`),
	}
}

type fakeCatalogue struct {
	records []model.HotelRecord
	err     error
}

func (f *fakeCatalogue) ListSearchableHotels(ctx context.Context) ([]model.HotelRecord, error) {
	return f.records, f.err
}

type fakeUnderstander struct {
	constraints *model.ExtractedConstraints
	err         error
	block       bool
	panics      bool
}

func (f *fakeUnderstander) Understand(ctx context.Context, query string) (*model.ExtractedConstraints, error) {
	if f.panics {
		panic("boom")
	}
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.constraints, f.err
}

type fakeVectorSearcher struct {
	result *model.VectorSearchResult
	err    error

	mu     sync.Mutex
	params []model.VectorSearchParams
}

func (f *fakeVectorSearcher) Search(ctx context.Context, params model.VectorSearchParams) (*model.VectorSearchResult, error) {
	f.mu.Lock()
	f.params = append(f.params, params)
	f.mu.Unlock()
	return f.result, f.err
}

// fakeEmbedder returns a fixed vector per text and can fail on texts
// containing failOn
type fakeEmbedder struct {
	vectors  map[string][]float32
	fallback []float32
	failOn   string
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding failed")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type fakeAvailability struct {
	rooms map[int64][]model.RoomAvailability
	errs  map[int64]error

	mu     sync.Mutex
	calls  int
	guests []int
}

func (f *fakeAvailability) Availability(ctx context.Context, hotelID int64, checkIn, checkOut string, guests int) ([]model.RoomAvailability, error) {
	f.mu.Lock()
	f.calls++
	f.guests = append(f.guests, guests)
	f.mu.Unlock()
	if err := f.errs[hotelID]; err != nil {
		return nil, err
	}
	return f.rooms[hotelID], nil
}

func (f *fakeAvailability) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeIndex struct {
	candidates []model.VectorCandidate
	err        error
	vector     []float32
}

func (f *fakeIndex) VectorSearch(ctx context.Context, vector []float32, params model.VectorSearchParams) ([]model.VectorCandidate, error) {
	f.vector = vector
	return f.candidates, f.err
}

type fakePreferences struct {
	rows []model.PreferenceRow
	err  error
}

func (f *fakePreferences) UserPreferences(ctx context.Context, userID string, days int) ([]model.PreferenceRow, error) {
	return f.rows, f.err
}

type fakeStore struct {
	hotels   map[int64]model.HotelRecord
	rooms    map[int64][]model.RoomRecord
	missing  []model.HotelRecord
	eventErr error

	mu       sync.Mutex
	events   []model.UserEvent
	embedded []model.EmbeddingItem
}

func (f *fakeStore) GetHotelByID(ctx context.Context, id int64) (*model.HotelRecord, error) {
	r, ok := f.hotels[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeStore) GetRoomsByHotelID(ctx context.Context, hotelID int64) ([]model.RoomRecord, error) {
	return f.rooms[hotelID], nil
}

func (f *fakeStore) LogEvent(ctx context.Context, event model.UserEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.eventErr != nil {
		return f.eventErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeStore) LogImpressions(ctx context.Context, userID, abGroup string, hotelIDs []int64) error {
	for _, id := range hotelIDs {
		if err := f.LogEvent(ctx, model.UserEvent{UserID: userID, HotelID: id, EventType: model.EventImpression, ABGroup: abGroup}); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embedded = append(f.embedded, items...)
	return len(items), nil
}

func (f *fakeStore) ListHotelsMissingEmbedding(ctx context.Context, limit int) ([]model.HotelRecord, error) {
	if limit > 0 && len(f.missing) > limit {
		return f.missing[:limit], nil
	}
	return f.missing, nil
}
