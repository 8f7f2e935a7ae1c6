package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelsearch/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing connection
func NewWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

const hotelColumns = `id, name, city, country, hotel_type, price_per_night, star_rating, amenities::text AS amenities`

// ListSearchableHotels returns the whole hotel catalogue
func (r *PostgresRepository) ListSearchableHotels(ctx context.Context) ([]model.HotelRecord, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels ORDER BY id`

	var hotels []model.HotelRecord
	if err := r.db.SelectContext(ctx, &hotels, query); err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}
	return hotels, nil
}

// GetHotelByID retrieves a single hotel, or nil when it does not exist
func (r *PostgresRepository) GetHotelByID(ctx context.Context, id int64) (*model.HotelRecord, error) {
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE id = $1`

	var hotel model.HotelRecord
	err := r.db.GetContext(ctx, &hotel, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}
	return &hotel, nil
}

// GetRoomsByHotelID lists the rooms of a hotel
func (r *PostgresRepository) GetRoomsByHotelID(ctx context.Context, hotelID int64) ([]model.RoomRecord, error) {
	query := `
		SELECT id, hotel_id, room_type, capacity, total_rooms, price_per_night,
			room_amenities::text AS room_amenities
		FROM rooms
		WHERE hotel_id = $1
		ORDER BY price_per_night NULLS LAST, id
	`

	var rooms []model.RoomRecord
	if err := r.db.SelectContext(ctx, &rooms, query, hotelID); err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}
	return rooms, nil
}

// availabilityQuery counts, per room that fits the party, the bookings
// overlapping the requested stay
const availabilityQuery = `
	SELECT
		r.id AS room_id,
		r.room_type,
		r.total_rooms AS available_rooms,
		COUNT(b.id) AS booked
	FROM rooms r
	LEFT JOIN bookings b
		ON b.room_id = r.id
		AND b.status <> 'cancelled'
		AND b.check_in < $3::date
		AND b.check_out > $2::date
	WHERE r.hotel_id = $1 AND r.capacity >= $4
	GROUP BY r.id, r.room_type, r.total_rooms
	ORDER BY r.id
`

// Availability reports room-level availability for a stay
func (r *PostgresRepository) Availability(ctx context.Context, hotelID int64, checkIn, checkOut string, guests int) ([]model.RoomAvailability, error) {
	var rooms []model.RoomAvailability
	if err := r.db.SelectContext(ctx, &rooms, availabilityQuery, hotelID, checkIn, checkOut, guests); err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	return rooms, nil
}

// buildVectorSearchQuery builds the nearest-neighbour query for params.
// The first argument is always the query vector.
func buildVectorSearchQuery(vector []float32, params model.VectorSearchParams) (string, []any) {
	whereClauses := []string{"embedding IS NOT NULL"}
	args := []any{pgvector.NewVector(vector)}
	argIndex := 2

	if params.City != nil && strings.TrimSpace(*params.City) != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(city) = LOWER($%d)", argIndex))
		args = append(args, strings.TrimSpace(*params.City))
		argIndex++
	}
	if params.MinPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price_per_night >= $%d", argIndex))
		args = append(args, *params.MinPrice)
		argIndex++
	}
	if params.MaxPrice != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("price_per_night <= $%d", argIndex))
		args = append(args, *params.MaxPrice)
		argIndex++
	}
	if params.MinRating != nil && *params.MinRating > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("star_rating >= $%d", argIndex))
		args = append(args, *params.MinRating)
		argIndex++
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id AS hotel_id, 1 - (embedding <=> $1) AS score
		FROM hotels
		WHERE %s
		ORDER BY embedding <=> $1
		LIMIT $%d
	`, strings.Join(whereClauses, " AND "), argIndex)

	return query, args
}

// VectorSearch returns the hotels closest to vector by cosine distance
func (r *PostgresRepository) VectorSearch(ctx context.Context, vector []float32, params model.VectorSearchParams) ([]model.VectorCandidate, error) {
	query, args := buildVectorSearchQuery(vector, params)

	var candidates []model.VectorCandidate
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("failed to run vector search: %w", err)
	}
	return candidates, nil
}

// LogEvent records a user interaction
func (r *PostgresRepository) LogEvent(ctx context.Context, event model.UserEvent) error {
	query := `
		INSERT INTO user_events (user_id, hotel_id, event_type, ab_group)
		VALUES ($1, $2, $3, NULLIF($4, ''))
	`
	_, err := r.db.ExecContext(ctx, query, event.UserID, event.HotelID, event.EventType, event.ABGroup)
	if err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}
	return nil
}

// LogImpressions records one impression per hotel in a single insert
func (r *PostgresRepository) LogImpressions(ctx context.Context, userID, abGroup string, hotelIDs []int64) error {
	if len(hotelIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO user_events (user_id, hotel_id, event_type, ab_group)
		SELECT $1, hotel_id, 'impression', NULLIF($3, '')
		FROM unnest($2::bigint[]) AS hotel_id
	`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(hotelIDs), abGroup)
	if err != nil {
		return fmt.Errorf("failed to log impressions: %w", err)
	}
	return nil
}

// UserPreferences returns the user's recent interactions joined with hotel data
func (r *PostgresRepository) UserPreferences(ctx context.Context, userID string, days int) ([]model.PreferenceRow, error) {
	query := `
		SELECT h.name, h.city, h.hotel_type, h.amenities::text AS amenities, e.event_type
		FROM user_events e
		JOIN hotels h ON h.id = e.hotel_id
		WHERE e.user_id = $1
			AND e.created_at > NOW() - make_interval(days => $2)
		ORDER BY
			CASE e.event_type WHEN 'booking' THEN 0 WHEN 'click' THEN 1 ELSE 2 END,
			e.created_at DESC
		LIMIT 50
	`

	var rows []model.PreferenceRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, days); err != nil {
		return nil, fmt.Errorf("failed to load user preferences: %w", err)
	}
	return rows, nil
}

// BatchUpdateEmbeddings updates embeddings for multiple hotels
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE hotels SET embedding = $1 WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		res, err := stmt.ExecContext(ctx, pgvector.NewVector(item.Embedding), item.HotelID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("hotel_id %d: %v", item.HotelID, err))
			continue
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			errs = append(errs, fmt.Sprintf("hotel_id %d: not found", item.HotelID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// ListHotelsMissingEmbedding returns up to limit hotels without an embedding
func (r *PostgresRepository) ListHotelsMissingEmbedding(ctx context.Context, limit int) ([]model.HotelRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + hotelColumns + ` FROM hotels WHERE embedding IS NULL ORDER BY id LIMIT $1`

	var hotels []model.HotelRecord
	if err := r.db.SelectContext(ctx, &hotels, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list hotels without embedding: %w", err)
	}
	return hotels, nil
}
