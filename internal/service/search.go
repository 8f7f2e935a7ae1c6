package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hotelsearch/internal/model"
	"hotelsearch/internal/utils"

	"github.com/google/uuid"
)

// Stage names reported in degraded_stages
const (
	StageUnderstand   = "understand"
	StageVectorSearch = "vector_search"
	StageIntent       = "intent"
	StageScore        = "score"
)

// Search defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	DefaultABGroup  = "A"
	defaultUserID   = anonymousUser
)

// SearchEventCallback is called for streaming search events
type SearchEventCallback func(event string, data any) error

// SearchService runs the hybrid ranking pipeline: query understanding,
// vector search, intent inference, hybrid scoring with a rule-based
// fallback, availability filtering and pagination.
type SearchService struct {
	catalogue    HotelCatalogue
	availability *AvailabilityFilter
	understander QueryUnderstander
	vectors      VectorSearcher
	intents      *IntentEstimator

	stageTimeout   time.Duration
	candidateLimit int
	defaultABGroup string
}

// Option configures a SearchService
type Option func(*SearchService)

// WithUnderstander enables query understanding
func WithUnderstander(u QueryUnderstander) Option {
	return func(s *SearchService) { s.understander = u }
}

// WithVectorSearcher enables semantic candidate retrieval
func WithVectorSearcher(v VectorSearcher) Option {
	return func(s *SearchService) { s.vectors = v }
}

// WithIntentEstimator enables intent signals
func WithIntentEstimator(e *IntentEstimator) Option {
	return func(s *SearchService) { s.intents = e }
}

// WithStageTimeout bounds each best-effort upstream call; 0 means no bound
func WithStageTimeout(d time.Duration) Option {
	return func(s *SearchService) { s.stageTimeout = d }
}

// WithCandidateLimit sets how many vector candidates are requested
func WithCandidateLimit(n int) Option {
	return func(s *SearchService) { s.candidateLimit = n }
}

// WithDefaultABGroup sets the group used when the caller supplies none
func WithDefaultABGroup(group string) Option {
	return func(s *SearchService) {
		if group != "" {
			s.defaultABGroup = group
		}
	}
}

// NewSearchService creates a search service. Catalogue and availability are
// required; every other collaborator is optional and its absence simply
// degrades the corresponding stage.
func NewSearchService(catalogue HotelCatalogue, availability *AvailabilityFilter, opts ...Option) (*SearchService, error) {
	if catalogue == nil {
		return nil, fmt.Errorf("hotel catalogue is required")
	}
	if availability == nil {
		return nil, fmt.Errorf("availability filter is required")
	}

	s := &SearchService{
		catalogue:      catalogue,
		availability:   availability,
		candidateLimit: 50,
		defaultABGroup: DefaultABGroup,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// stage is the outcome of a best-effort pipeline step
type stage[T any] struct {
	value    T
	degraded bool
}

// runStage calls fn under the stage timeout. An error or panic yields
// fallback with degraded set.
func runStage[T any](ctx context.Context, name string, timeout time.Duration, fallback T, fn func(ctx context.Context) (T, error)) (out stage[T]) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WARN] ⚠️  Stage %s panicked: %v", name, r)
			out = stage[T]{value: fallback, degraded: true}
		}
	}()

	value, err := fn(ctx)
	if err != nil {
		log.Printf("[WARN] ⚠️  Stage %s degraded: %v", name, err)
		return stage[T]{value: fallback, degraded: true}
	}
	return stage[T]{value: value}
}

// Search ranks hotels for req. It fails only for a blank query or when the
// catalogue cannot be loaded; every other problem degrades gracefully.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest, sc model.SearchContext) (*model.SearchResponse, error) {
	return s.run(ctx, req, sc, nil)
}

// SearchStream is Search with progress events emitted between stages
func (s *SearchService) SearchStream(ctx context.Context, req *model.SearchRequest, sc model.SearchContext, callback SearchEventCallback) (*model.SearchResponse, error) {
	return s.run(ctx, req, sc, callback)
}

func (s *SearchService) run(ctx context.Context, req *model.SearchRequest, sc model.SearchContext, callback SearchEventCallback) (*model.SearchResponse, error) {
	startTime := time.Now()

	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, ErrQueryRequired
	}
	query := req.Query

	emit := func(event string, data any) error {
		if callback == nil {
			return nil
		}
		return callback(event, data)
	}

	abGroup := sc.ABGroup
	if abGroup == "" {
		abGroup = s.defaultABGroup
	}
	userID := sc.UserID
	if userID == "" {
		userID = defaultUserID
	}
	degraded := []string{}

	// Understand the query
	understood := runStage(ctx, StageUnderstand, s.stageTimeout, &model.ExtractedConstraints{},
		func(ctx context.Context) (*model.ExtractedConstraints, error) {
			if s.understander == nil {
				return nil, ErrAIDisabled
			}
			c, err := s.understander.Understand(ctx, query)
			if err == nil && c == nil {
				err = fmt.Errorf("query understanding returned no constraints")
			}
			return c, err
		})
	if understood.degraded {
		degraded = append(degraded, StageUnderstand)
	}
	extracted := understood.value

	if err := emit("understood", extracted); err != nil {
		return nil, err
	}

	// Load the catalogue
	records, err := s.catalogue.ListSearchableHotels(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogueUnavailable, err)
	}
	lookup := buildLookup(records)

	minRating := extracted.MinRating
	if minRating == nil {
		minRating = req.MinRating
	}

	// Vector search
	searched := runStage(ctx, StageVectorSearch, s.stageTimeout, &model.VectorSearchResult{},
		func(ctx context.Context) (*model.VectorSearchResult, error) {
			if s.vectors == nil {
				return nil, ErrAIDisabled
			}
			r, err := s.vectors.Search(ctx, model.VectorSearchParams{
				Query:     query,
				City:      extracted.City,
				MinPrice:  req.MinPrice,
				MaxPrice:  req.MaxPrice,
				MinRating: minRating,
				UserID:    userID,
				Limit:     s.candidateLimit,
			})
			if err == nil && r == nil {
				err = fmt.Errorf("vector search returned no result")
			}
			return r, err
		})
	if searched.degraded {
		degraded = append(degraded, StageVectorSearch)
	}
	candidates := searched.value.Candidates

	if err := emit("candidates", map[string]any{
		"count":    len(candidates),
		"degraded": searched.degraded,
	}); err != nil {
		return nil, err
	}

	// Intent inference
	signals := model.IntentSignals{}
	if embedding := searched.value.QueryEmbedding; len(embedding) > 0 && s.intents != nil {
		inferred := runStage(ctx, StageIntent, s.stageTimeout, model.IntentSignals{},
			func(ctx context.Context) (model.IntentSignals, error) {
				sig := s.intents.Infer(ctx, embedding)
				if len(sig) == 0 {
					return nil, fmt.Errorf("no intent anchors available")
				}
				return sig, nil
			})
		if inferred.degraded {
			degraded = append(degraded, StageIntent)
		}
		signals = inferred.value
	}

	// Hybrid scoring, falling back to rule-based ranking
	scored := runStage(ctx, StageScore, 0, []model.RankedHotel{},
		func(ctx context.Context) ([]model.RankedHotel, error) {
			return BuildHybridScores(candidates, lookup, signals, abGroup), nil
		})
	if scored.degraded {
		degraded = append(degraded, StageScore)
	}
	ranked := scored.value
	usedSemantic := len(ranked) > 0
	if !usedSemantic {
		ranked = FallbackRank(lookup, FallbackCriteria{
			City:      extracted.City,
			HotelType: extracted.HotelType,
			MinRating: minRating,
		})
	}

	if err := emit("ranked", map[string]any{
		"count":         len(ranked),
		"used_semantic": usedSemantic,
	}); err != nil {
		return nil, err
	}

	// Availability
	if req.CheckIn != "" && req.CheckOut != "" {
		ranked = s.availability.Check(ctx, ranked, req.CheckIn, req.CheckOut, req.Guests.Int())
	}

	// Pagination
	page, pageSize := normalizePaging(req.Page.Int(), req.PageSize.Int())
	hotels := paginate(ranked, page, pageSize)
	annotateReasons(hotels, extracted)

	return &model.SearchResponse{
		Success:        true,
		SearchID:       uuid.NewString(),
		Query:          query,
		ABGroup:        abGroup,
		UsedSemantic:   usedSemantic,
		Extracted:      extracted,
		IntentSignals:  signals,
		DegradedStages: degraded,
		TotalResults:   len(ranked),
		Page:           page,
		PageSize:       pageSize,
		Hotels:         hotels,
		Took:           time.Since(startTime).Milliseconds(),
	}, nil
}

// buildLookup normalises catalogue rows into a lookup
func buildLookup(records []model.HotelRecord) *model.HotelLookup {
	hotels := make([]model.Hotel, 0, len(records))
	for _, r := range records {
		hotels = append(hotels, HotelFromRecord(r))
	}
	return model.NewHotelLookup(hotels)
}

// HotelFromRecord normalises a stored hotel row
func HotelFromRecord(r model.HotelRecord) model.Hotel {
	return model.Hotel{
		ID:            r.ID,
		Name:          r.Name,
		City:          deref(r.City),
		Country:       deref(r.Country),
		HotelType:     deref(r.HotelType),
		PricePerNight: finiteOrZero(deref(r.PricePerNight)),
		StarRating:    finiteOrZero(deref(r.StarRating)),
		Amenities:     utils.NormalizeAmenities(r.Amenities),
	}
}

// normalizePaging clamps page to at least 1 and replaces a non-positive
// page size with the default
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// paginate returns a copy of the requested page, empty past the end
func paginate(hotels []model.RankedHotel, page, pageSize int) []model.RankedHotel {
	offset := (page - 1) * pageSize
	if offset < 0 || offset >= len(hotels) {
		return []model.RankedHotel{}
	}
	end := min(offset+pageSize, len(hotels))
	if end < offset {
		end = len(hotels)
	}
	out := make([]model.RankedHotel, end-offset)
	copy(out, hotels[offset:end])
	return out
}
