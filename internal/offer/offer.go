// Package offer resolves promotional codes against a fixed registry and
// tracks one-time redemption per user.
//
// The registry is an in-process read-only map; only redemption state is
// persistent. Exclusivity of redemption is enforced by the backing store's
// unique (user_id, code) key — never by an in-memory check — so two
// concurrent redemption attempts for the same pair can never both succeed.
package offer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/instastay/booking-api/internal/domain"
)

// RedemptionStore records (user, code) pairs with insert-once semantics.
// Implemented by repo.RedemptionRepo over a Postgres unique index.
type RedemptionStore interface {
	// InsertIfAbsent records the pair, returning domain.ErrAlreadyRedeemed
	// if it was already present. Exactly one of any set of concurrent
	// inserts for the same pair succeeds.
	InsertIfAbsent(ctx context.Context, userID uuid.UUID, code string) error

	// Exists reports whether the pair has been recorded.
	Exists(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

// Resolver validates offer codes and mediates redemption.
type Resolver struct {
	registry map[string]domain.OfferCode
	store    RedemptionStore
}

// NewResolver constructs a Resolver over the given registry and store.
// Registry keys must be canonical (uppercase); DefaultRegistry satisfies this.
func NewResolver(registry map[string]domain.OfferCode, store RedemptionStore) *Resolver {
	return &Resolver{registry: registry, store: store}
}

// DefaultRegistry returns the built-in promotional codes.
func DefaultRegistry() map[string]domain.OfferCode {
	return map[string]domain.OfferCode{
		"WELCOME20": {Code: "WELCOME20", DiscountPercent: 20, Description: "20% off your first booking"},
		"STAYMORE10": {Code: "STAYMORE10", DiscountPercent: 10, Description: "10% off any stay"},
		"FESTIVE25": {Code: "FESTIVE25", DiscountPercent: 25, Description: "25% off for the festive season"},
	}
}

// Canonical normalizes a user-supplied code for lookup and storage.
// Matching is case-insensitive; the canonical form is trimmed uppercase.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup resolves a code to its discount.
// Returns domain.ErrInvalidOfferCode for codes not in the registry.
func (r *Resolver) Lookup(code string) (domain.OfferCode, error) {
	oc, ok := r.registry[Canonical(code)]
	if !ok {
		return domain.OfferCode{}, fmt.Errorf("offer.Resolver.Lookup: %q: %w", code, domain.ErrInvalidOfferCode)
	}
	return oc, nil
}

// Redeem records the user's one-time use of a code.
// Returns domain.ErrInvalidOfferCode for unknown codes and
// domain.ErrAlreadyRedeemed when the user has used the code before.
// The store's uniqueness constraint is the real guard; callers that
// pre-checked with CheckRedeemed must still handle ErrAlreadyRedeemed here.
func (r *Resolver) Redeem(ctx context.Context, userID uuid.UUID, code string) error {
	oc, err := r.Lookup(code)
	if err != nil {
		return err
	}
	if err := r.store.InsertIfAbsent(ctx, userID, oc.Code); err != nil {
		return fmt.Errorf("offer.Resolver.Redeem: %w", err)
	}
	return nil
}

// CheckRedeemed is a non-mutating pre-check used for "already used" warnings
// before a booking attempt. Redeem remains the authority — a clean pre-check
// does not guarantee a later Redeem will succeed.
func (r *Resolver) CheckRedeemed(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	used, err := r.store.Exists(ctx, userID, Canonical(code))
	if err != nil {
		return false, fmt.Errorf("offer.Resolver.CheckRedeemed: %w", err)
	}
	return used, nil
}
