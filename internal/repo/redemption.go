package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/instastay/booking-api/internal/domain"
)

// RedemptionRepo records offer-code redemptions with insert-once semantics.
// It satisfies offer.RedemptionStore.
//
// The (user_id, code) primary key is the correctness-critical guard: when two
// concurrent redemption attempts race, Postgres guarantees exactly one insert
// wins and the other observes the conflict. No in-memory check can provide
// this across processes.
type RedemptionRepo interface {
	// InsertIfAbsent records the pair, returning domain.ErrAlreadyRedeemed
	// when it was already present.
	InsertIfAbsent(ctx context.Context, userID uuid.UUID, code string) error

	// Exists reports whether the pair has been recorded.
	Exists(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

// pgRedemptionRepo is the Postgres implementation of RedemptionRepo.
type pgRedemptionRepo struct {
	db db
}

// NewRedemptionRepo constructs a RedemptionRepo backed by the provided db connection.
func NewRedemptionRepo(db db) RedemptionRepo {
	return &pgRedemptionRepo{db: db}
}

// InsertIfAbsent inserts the pair, relying on ON CONFLICT DO NOTHING plus the
// affected-row count to detect a prior redemption atomically.
func (r *pgRedemptionRepo) InsertIfAbsent(ctx context.Context, userID uuid.UUID, code string) error {
	const q = `
		INSERT INTO offer_redemptions (user_id, code)
		VALUES (@user_id, @code)
		ON CONFLICT (user_id, code) DO NOTHING`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "code": code})
	if err != nil {
		return fmt.Errorf("repo.RedemptionRepo.InsertIfAbsent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RedemptionRepo.InsertIfAbsent: %w", domain.ErrAlreadyRedeemed)
	}
	return nil
}

// Exists reports whether the (user, code) pair has been recorded.
func (r *pgRedemptionRepo) Exists(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM offer_redemptions
			WHERE user_id = @user_id AND code = @code
		)`

	var exists bool
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "code": code})
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.RedemptionRepo.Exists: %w", err)
	}
	return exists, nil
}
