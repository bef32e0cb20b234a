package offer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instastay/booking-api/internal/domain"
	"github.com/instastay/booking-api/internal/offer"
)

// ---- mock store ------------------------------------------------------------

// mockRedemptionStore is a hand-written test double for offer.RedemptionStore.
type mockRedemptionStore struct {
	insertIfAbsent func(ctx context.Context, userID uuid.UUID, code string) error
	exists         func(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

func (m *mockRedemptionStore) InsertIfAbsent(ctx context.Context, userID uuid.UUID, code string) error {
	return m.insertIfAbsent(ctx, userID, code)
}

func (m *mockRedemptionStore) Exists(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	return m.exists(ctx, userID, code)
}

var _ offer.RedemptionStore = (*mockRedemptionStore)(nil)

// ---- Lookup ----------------------------------------------------------------

func TestResolver_Lookup_OK(t *testing.T) {
	r := offer.NewResolver(offer.DefaultRegistry(), nil)

	oc, err := r.Lookup("WELCOME20")
	require.NoError(t, err)
	assert.Equal(t, float64(20), oc.DiscountPercent)
	assert.NotEmpty(t, oc.Description)
}

func TestResolver_Lookup_CaseInsensitive(t *testing.T) {
	r := offer.NewResolver(offer.DefaultRegistry(), nil)

	oc, err := r.Lookup("  welcome20 ")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME20", oc.Code)
}

func TestResolver_Lookup_Unknown(t *testing.T) {
	r := offer.NewResolver(offer.DefaultRegistry(), nil)

	_, err := r.Lookup("NOSUCHCODE")
	assert.ErrorIs(t, err, domain.ErrInvalidOfferCode)
}

// ---- Redeem ----------------------------------------------------------------

func TestResolver_Redeem_OK(t *testing.T) {
	userID := uuid.New()
	var gotCode string
	store := &mockRedemptionStore{
		insertIfAbsent: func(_ context.Context, id uuid.UUID, code string) error {
			assert.Equal(t, userID, id)
			gotCode = code
			return nil
		},
	}
	r := offer.NewResolver(offer.DefaultRegistry(), store)

	err := r.Redeem(context.Background(), userID, "welcome20")

	require.NoError(t, err)
	// The canonical code is what gets recorded, regardless of input casing.
	assert.Equal(t, "WELCOME20", gotCode)
}

func TestResolver_Redeem_AlreadyRedeemed(t *testing.T) {
	store := &mockRedemptionStore{
		insertIfAbsent: func(_ context.Context, _ uuid.UUID, _ string) error {
			return domain.ErrAlreadyRedeemed
		},
	}
	r := offer.NewResolver(offer.DefaultRegistry(), store)

	err := r.Redeem(context.Background(), uuid.New(), "WELCOME20")

	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
}

func TestResolver_Redeem_UnknownCodeNeverHitsStore(t *testing.T) {
	store := &mockRedemptionStore{
		insertIfAbsent: func(_ context.Context, _ uuid.UUID, _ string) error {
			t.Fatal("store must not be called for an unknown code")
			return nil
		},
	}
	r := offer.NewResolver(offer.DefaultRegistry(), store)

	err := r.Redeem(context.Background(), uuid.New(), "BOGUS")

	assert.ErrorIs(t, err, domain.ErrInvalidOfferCode)
}

// ---- CheckRedeemed ---------------------------------------------------------

func TestResolver_CheckRedeemed(t *testing.T) {
	store := &mockRedemptionStore{
		exists: func(_ context.Context, _ uuid.UUID, code string) (bool, error) {
			return code == "WELCOME20", nil
		},
	}
	r := offer.NewResolver(offer.DefaultRegistry(), store)

	used, err := r.CheckRedeemed(context.Background(), uuid.New(), "welcome20")
	require.NoError(t, err)
	assert.True(t, used)

	used, err = r.CheckRedeemed(context.Background(), uuid.New(), "FESTIVE25")
	require.NoError(t, err)
	assert.False(t, used)
}
