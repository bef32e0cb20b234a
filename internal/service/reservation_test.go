package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instastay/booking-api/internal/domain"
	"github.com/instastay/booking-api/internal/offer"
	"github.com/instastay/booking-api/internal/payment"
	"github.com/instastay/booking-api/internal/pricing"
	"github.com/instastay/booking-api/internal/repo"
	"github.com/instastay/booking-api/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockHotelRepo is a hand-written test double for repo.HotelRepo.
type mockHotelRepo struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.Hotel, error)
	list    func(ctx context.Context) ([]domain.Hotel, error)
}

func (m *mockHotelRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	return m.getByID(ctx, id)
}

func (m *mockHotelRepo) List(ctx context.Context) ([]domain.Hotel, error) {
	return m.list(ctx)
}

var _ repo.HotelRepo = (*mockHotelRepo)(nil)

// mockBookingRepo is a hand-written test double for repo.BookingRepo.
type mockBookingRepo struct {
	insert       func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listByUser   func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error
}

func (m *mockBookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.insert(ctx, b)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}

func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listByUser(ctx, userID)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) error {
	return m.updateStatus(ctx, id, status)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// mockReviewRepo is a hand-written test double for repo.ReviewRepo.
type mockReviewRepo struct {
	exists func(ctx context.Context, userID, hotelID uuid.UUID) (bool, error)
}

func (m *mockReviewRepo) Exists(ctx context.Context, userID, hotelID uuid.UUID) (bool, error) {
	return m.exists(ctx, userID, hotelID)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

// memRedemptionStore is an in-memory offer.RedemptionStore good enough for
// single-process tests. The real uniqueness guard is the Postgres key.
type memRedemptionStore struct {
	used map[string]bool
}

func newMemRedemptionStore() *memRedemptionStore {
	return &memRedemptionStore{used: map[string]bool{}}
}

func (s *memRedemptionStore) key(userID uuid.UUID, code string) string {
	return userID.String() + "/" + code
}

func (s *memRedemptionStore) InsertIfAbsent(_ context.Context, userID uuid.UUID, code string) error {
	k := s.key(userID, code)
	if s.used[k] {
		return domain.ErrAlreadyRedeemed
	}
	s.used[k] = true
	return nil
}

func (s *memRedemptionStore) Exists(_ context.Context, userID uuid.UUID, code string) (bool, error) {
	return s.used[s.key(userID, code)], nil
}

// countingGateway records charges and can be told to decline.
type countingGateway struct {
	charges []payment.Request
	err     error
}

func (g *countingGateway) Charge(_ context.Context, req payment.Request) (payment.Result, error) {
	g.charges = append(g.charges, req)
	if g.err != nil {
		return payment.Result{}, g.err
	}
	return payment.Result{PaymentRef: "PAY-TEST"}, nil
}

// ---- fixtures --------------------------------------------------------------

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hotelFixture() domain.Hotel {
	return domain.Hotel{
		ID:        uuid.New(),
		Name:      "Hotel X",
		Location:  "Mumbai",
		RateMinor: 2000,
		Rating:    4.5,
	}
}

func draftFixture(hotelID uuid.UUID) domain.BookingDraft {
	return domain.BookingDraft{
		HotelID:  hotelID,
		Dates:    domain.DateRange{CheckIn: day(2026, 4, 10), CheckOut: day(2026, 4, 13)}, // 3 nights
		Guests:   2,
		RoomType: "Deluxe",
		Guest:    domain.GuestDetails{Name: "Priya Sharma", Email: "priya@example.com", Phone: "+91 98765 43210"},
	}
}

type fixture struct {
	svc      *service.ReservationService
	hotels   *mockHotelRepo
	bookings *mockBookingRepo
	reviews  *mockReviewRepo
	gateway  *countingGateway
	store    *memRedemptionStore
}

// newFixture wires a ReservationService around in-memory doubles with a
// pinned clock. Individual tests override mock funcs as needed.
func newFixture(hotel domain.Hotel) *fixture {
	f := &fixture{
		hotels: &mockHotelRepo{
			getByID: func(_ context.Context, id uuid.UUID) (domain.Hotel, error) {
				if id == hotel.ID {
					return hotel, nil
				}
				return domain.Hotel{}, domain.ErrNotFound
			},
		},
		bookings: &mockBookingRepo{
			insert: func(_ context.Context, b domain.Booking) (domain.Booking, error) {
				b.ID = uuid.New()
				b.CreatedAt = fixedNow
				b.UpdatedAt = fixedNow
				return b, nil
			},
		},
		reviews: &mockReviewRepo{
			exists: func(_ context.Context, _, _ uuid.UUID) (bool, error) { return false, nil },
		},
		gateway: &countingGateway{},
		store:   newMemRedemptionStore(),
	}
	f.svc = service.NewReservationService(
		f.hotels,
		f.bookings,
		f.reviews,
		offer.NewResolver(offer.DefaultRegistry(), f.store),
		f.gateway,
		pricing.NewCalculator(18),
		service.ReservationConfig{Now: func() time.Time { return fixedNow }},
	)
	return f
}

// ---- Create ----------------------------------------------------------------

// TestCreate_WithOfferCode walks the full scenario: ₹2000/night, 3 nights,
// 2 guests, WELCOME20 → round(2000*3*2*0.8*1.18) = 11328, booking confirmed,
// redemption recorded.
func TestCreate_WithOfferCode(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)
	userID := uuid.New()

	draft := draftFixture(hotel.ID)
	draft.OfferCode = "WELCOME20"

	got, err := f.svc.Create(context.Background(), userID, draft)

	require.NoError(t, err)
	assert.Equal(t, int64(11328), got.TotalMinor)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.Equal(t, "PAY-TEST", got.PaymentRef)
	assert.Equal(t, "WELCOME20", got.OfferCode)
	assert.NotEqual(t, uuid.Nil, got.ID)

	// The charge used the computed total, not anything caller-supplied.
	require.Len(t, f.gateway.charges, 1)
	assert.Equal(t, int64(11328), f.gateway.charges[0].AmountMinor)
	assert.Equal(t, "INR", f.gateway.charges[0].Currency)

	used, err := f.store.Exists(context.Background(), userID, "WELCOME20")
	require.NoError(t, err)
	assert.True(t, used)
}

// TestCreate_SecondUseOfCode verifies the same user cannot spend the code
// twice: the second attempt fails before any charge, and no booking is made.
func TestCreate_SecondUseOfCode(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)
	userID := uuid.New()

	draft := draftFixture(hotel.ID)
	draft.OfferCode = "WELCOME20"

	_, err := f.svc.Create(context.Background(), userID, draft)
	require.NoError(t, err)
	require.Len(t, f.gateway.charges, 1)

	inserts := 0
	f.bookings.insert = func(_ context.Context, b domain.Booking) (domain.Booking, error) {
		inserts++
		b.ID = uuid.New()
		return b, nil
	}

	_, err = f.svc.Create(context.Background(), userID, draft)

	assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
	assert.Len(t, f.gateway.charges, 1, "no second charge may be attempted")
	assert.Zero(t, inserts, "no booking may be created")
}

func TestCreate_NoCode_UsesHotelDiscount(t *testing.T) {
	hotel := hotelFixture()
	hotel.DiscountPercent = 20
	f := newFixture(hotel)

	got, err := f.svc.Create(context.Background(), uuid.New(), draftFixture(hotel.ID))

	require.NoError(t, err)
	assert.Equal(t, int64(11328), got.TotalMinor) // same 20% off, from the hotel
	assert.Empty(t, got.OfferCode)
}

func TestCreate_Unauthenticated(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)

	_, err := f.svc.Create(context.Background(), uuid.Nil, draftFixture(hotel.ID))

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, f.gateway.charges)
}

func TestCreate_InvalidDateRange(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)

	draft := draftFixture(hotel.ID)
	draft.Dates.CheckOut = draft.Dates.CheckIn // zero nights

	_, err := f.svc.Create(context.Background(), uuid.New(), draft)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.gateway.charges, "an invalid range must never reach payment")
}

func TestCreate_ZeroGuests(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)

	draft := draftFixture(hotel.ID)
	draft.Guests = 0

	_, err := f.svc.Create(context.Background(), uuid.New(), draft)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.gateway.charges)
}

func TestCreate_MissingGuestContact(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)

	draft := draftFixture(hotel.ID)
	draft.Guest.Email = "nope"

	_, err := f.svc.Create(context.Background(), uuid.New(), draft)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreate_HotelNotFound(t *testing.T) {
	f := newFixture(hotelFixture())

	_, err := f.svc.Create(context.Background(), uuid.New(), draftFixture(uuid.New()))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.gateway.charges)
}

func TestCreate_UnknownOfferCode(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)

	draft := draftFixture(hotel.ID)
	draft.OfferCode = "NOSUCHCODE"

	_, err := f.svc.Create(context.Background(), uuid.New(), draft)

	assert.ErrorIs(t, err, domain.ErrInvalidOfferCode)
	assert.Empty(t, f.gateway.charges)
}

// TestCreate_PaymentFailure verifies that a declined charge aborts cleanly:
// no booking row, no redemption, and the error carries ErrPaymentFailed.
func TestCreate_PaymentFailure(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)
	f.gateway.err = payment.ErrDeclined
	userID := uuid.New()

	inserts := 0
	f.bookings.insert = func(_ context.Context, b domain.Booking) (domain.Booking, error) {
		inserts++
		return b, nil
	}

	draft := draftFixture(hotel.ID)
	draft.OfferCode = "WELCOME20"

	_, err := f.svc.Create(context.Background(), userID, draft)

	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.Zero(t, inserts)

	used, uerr := f.store.Exists(context.Background(), userID, "WELCOME20")
	require.NoError(t, uerr)
	assert.False(t, used, "a failed booking must never consume the code")
}

// TestCreate_PersistFailure_DoesNotConsumeCode covers the ordering rule:
// the redemption commits only after the booking row is stored.
func TestCreate_PersistFailure_DoesNotConsumeCode(t *testing.T) {
	hotel := hotelFixture()
	f := newFixture(hotel)
	userID := uuid.New()

	f.bookings.insert = func(_ context.Context, _ domain.Booking) (domain.Booking, error) {
		return domain.Booking{}, errors.New("store unreachable")
	}

	draft := draftFixture(hotel.ID)
	draft.OfferCode = "WELCOME20"

	_, err := f.svc.Create(context.Background(), userID, draft)

	require.Error(t, err)
	used, uerr := f.store.Exists(context.Background(), userID, "WELCOME20")
	require.NoError(t, uerr)
	assert.False(t, used)
}

// ---- Cancel ----------------------------------------------------------------

func storedBooking(userID uuid.UUID, checkIn time.Time) domain.Booking {
	return domain.Booking{
		ID:      uuid.New(),
		HotelID: uuid.New(),
		UserID:  userID,
		Dates:   domain.DateRange{CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2)},
		Guests:  2,
		Status:  domain.StatusConfirmed,
	}
}

func cancelFixture(b domain.Booking) *fixture {
	f := newFixture(hotelFixture())
	f.bookings.getByID = func(_ context.Context, id uuid.UUID) (domain.Booking, error) {
		if id == b.ID {
			return b, nil
		}
		return domain.Booking{}, domain.ErrNotFound
	}
	f.bookings.updateStatus = func(_ context.Context, _ uuid.UUID, _ domain.BookingStatus) error {
		return nil
	}
	return f
}

func TestCancel_OutsideWindow_OK(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.Add(25*time.Hour))
	f := cancelFixture(b)

	got, err := f.svc.Cancel(context.Background(), userID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestCancel_InsideWindow_Refused(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.Add(23*time.Hour))
	f := cancelFixture(b)

	_, err := f.svc.Cancel(context.Background(), userID, b.ID)

	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestCancel_ExactlyAtBoundary_Refused(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.Add(24*time.Hour))
	f := cancelFixture(b)

	_, err := f.svc.Cancel(context.Background(), userID, b.ID)

	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestCancel_AlreadyCancelled_Refused(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.Add(72*time.Hour))
	b.Status = domain.StatusCancelled
	f := cancelFixture(b)

	_, err := f.svc.Cancel(context.Background(), userID, b.ID)

	// Repeat cancel attempts fail the same way — nothing resurrects or
	// re-cancels a terminal booking.
	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestCancel_CompletedStay_Refused(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.AddDate(0, 0, -10))
	f := cancelFixture(b)

	_, err := f.svc.Cancel(context.Background(), userID, b.ID)

	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestCancel_OtherUsersBooking_NotFound(t *testing.T) {
	owner := uuid.New()
	b := storedBooking(owner, fixedNow.Add(72*time.Hour))
	f := cancelFixture(b)

	_, err := f.svc.Cancel(context.Background(), uuid.New(), b.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListForUser -----------------------------------------------------------

func TestListForUser_DerivedState(t *testing.T) {
	userID := uuid.New()
	upcoming := storedBooking(userID, fixedNow.Add(72*time.Hour))
	past := storedBooking(userID, fixedNow.AddDate(0, 0, -10))
	cancelled := storedBooking(userID, fixedNow.Add(96*time.Hour))
	cancelled.Status = domain.StatusCancelled

	f := newFixture(hotelFixture())
	f.bookings.listByUser = func(_ context.Context, _ uuid.UUID) ([]domain.Booking, error) {
		return []domain.Booking{upcoming, past, cancelled}, nil
	}

	views, err := f.svc.ListForUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, domain.ClassUpcoming, views[0].Classification)
	assert.True(t, views[0].Cancellable)
	assert.Equal(t, domain.ClassCompleted, views[1].Classification)
	assert.False(t, views[1].Cancellable)
	assert.Equal(t, domain.ClassCancelled, views[2].Classification)
	assert.False(t, views[2].Cancellable)
}

func TestListForUser_EmptyIsNonNil(t *testing.T) {
	f := newFixture(hotelFixture())
	f.bookings.listByUser = func(_ context.Context, _ uuid.UUID) ([]domain.Booking, error) {
		return nil, nil
	}

	views, err := f.svc.ListForUser(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

// ---- ReviewEligible --------------------------------------------------------

func TestReviewEligible_CompletedWithoutReview(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.AddDate(0, 0, -10))
	f := cancelFixture(b)

	ok, err := f.svc.ReviewEligible(context.Background(), userID, b.ID)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReviewEligible_UpcomingStay_No(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.Add(72*time.Hour))
	f := cancelFixture(b)

	ok, err := f.svc.ReviewEligible(context.Background(), userID, b.ID)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReviewEligible_AlreadyReviewed_No(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.AddDate(0, 0, -10))
	f := cancelFixture(b)
	f.reviews.exists = func(_ context.Context, _, _ uuid.UUID) (bool, error) {
		return true, nil
	}

	ok, err := f.svc.ReviewEligible(context.Background(), userID, b.ID)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReviewEligible_CancelledStay_No(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.AddDate(0, 0, -10))
	b.Status = domain.StatusCancelled
	f := cancelFixture(b)

	ok, err := f.svc.ReviewEligible(context.Background(), userID, b.ID)

	require.NoError(t, err)
	assert.False(t, ok)
}

// ---- Rebook ----------------------------------------------------------------

func TestRebook_CompletedStay_PrefillsDraft(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.AddDate(0, 0, -10))
	b.RoomType = "Suite"
	b.Guest = domain.GuestDetails{Name: "Priya Sharma", Email: "priya@example.com", Phone: "+91 98765 43210"}
	f := cancelFixture(b)

	draft, err := f.svc.Rebook(context.Background(), userID, b.ID)

	require.NoError(t, err)
	assert.Equal(t, b.HotelID, draft.HotelID)
	assert.Equal(t, b.Guests, draft.Guests)
	assert.Equal(t, "Suite", draft.RoomType)
	assert.Equal(t, b.Guest, draft.Guest)
	// Dates are left for the caller to choose afresh.
	assert.True(t, draft.Dates.CheckIn.IsZero())
}

func TestRebook_UpcomingStay_Refused(t *testing.T) {
	userID := uuid.New()
	b := storedBooking(userID, fixedNow.Add(72*time.Hour))
	f := cancelFixture(b)

	_, err := f.svc.Rebook(context.Background(), userID, b.ID)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
