package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReviewRepo exposes the read-only review check the core needs.
// Review submission itself is owned by the external review system; the core
// only asks "has this user already reviewed this hotel" when deciding
// review eligibility. One review per user per hotel is enforced by the
// unique (user_id, hotel_id) index on the reviews table.
type ReviewRepo interface {
	// Exists reports whether userID has already reviewed hotelID.
	Exists(ctx context.Context, userID, hotelID uuid.UUID) (bool, error)
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

// Exists reports whether a review by userID for hotelID is on record.
func (r *pgReviewRepo) Exists(ctx context.Context, userID, hotelID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE user_id = @user_id AND hotel_id = @hotel_id
		)`

	var exists bool
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "hotel_id": hotelID})
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.ReviewRepo.Exists: %w", err)
	}
	return exists, nil
}
