// Package repo contains all database access logic for the booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/instastay/booking-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// HotelRepo defines the read-only persistence operations for Hotels.
// The core never mutates hotel records; catalog maintenance is external.
type HotelRepo interface {
	// GetByID retrieves a single hotel by its UUID primary key.
	// Returns domain.ErrNotFound if no hotel with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error)

	// List returns the full catalog in stable catalog order (insertion order).
	List(ctx context.Context) ([]domain.Hotel, error)
}

// pgHotelRepo is the Postgres implementation of HotelRepo.
type pgHotelRepo struct {
	db db
}

// NewHotelRepo constructs a HotelRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewHotelRepo(db db) HotelRepo {
	return &pgHotelRepo{db: db}
}

const hotelColumns = `id, name, location, rate_minor, original_rate_minor, rating,
		review_count, amenities, discount_percent, created_at`

// GetByID retrieves a hotel by primary key.
func (r *pgHotelRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	const q = `
		SELECT ` + hotelColumns + `
		FROM hotels
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanHotel(row)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("repo.HotelRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns the whole catalog in insertion order, so "popular" sorting
// downstream can rely on a stable base ordering.
func (r *pgHotelRepo) List(ctx context.Context) ([]domain.Hotel, error) {
	const q = `
		SELECT ` + hotelColumns + `
		FROM hotels
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.HotelRepo.List: %w", err)
	}
	defer rows.Close()

	hotels := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.HotelRepo.List: scan: %w", err)
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.HotelRepo.List: rows: %w", err)
	}
	return hotels, nil
}

// scanHotel maps a single database row into a domain.Hotel.
// It handles the UUID, nullable original rate, and text[] amenity conversions.
func scanHotel(s scanner) (domain.Hotel, error) {
	var (
		h            domain.Hotel
		id           pgtype.UUID
		originalRate pgtype.Int8
		discount     pgtype.Float8
	)

	err := s.Scan(&id, &h.Name, &h.Location, &h.RateMinor, &originalRate, &h.Rating,
		&h.ReviewCount, &h.Amenities, &discount, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}

	h.ID = uuid.UUID(id.Bytes)
	if originalRate.Valid {
		v := originalRate.Int64
		h.OriginalRateMinor = &v
	}
	if discount.Valid {
		h.DiscountPercent = discount.Float64
	}

	return h, nil
}
