// Package service contains the business logic for the booking API.
// Services validate inputs, enforce business rules, and orchestrate repo,
// offer, and payment calls. No SQL lives here — services depend on
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/instastay/booking-api/internal/domain"
	"github.com/instastay/booking-api/internal/offer"
	"github.com/instastay/booking-api/internal/payment"
	"github.com/instastay/booking-api/internal/pricing"
	"github.com/instastay/booking-api/internal/repo"
)

// Clock supplies the current time. Injected so tests can pin "now" when
// exercising the cancellation window and completion classification.
type Clock func() time.Time

// ReservationConfig carries the knobs the reservation protocol needs.
// Zero values fall back to sane defaults.
type ReservationConfig struct {
	// Currency is the ISO code passed to the payment gateway. Default "INR".
	Currency string
	// PaymentTimeout bounds the blocking gateway call. Default 5s.
	PaymentTimeout time.Duration
	// Now is the clock. Default time.Now.
	Now Clock
}

// ReservationService implements the booking lifecycle: the creation protocol,
// the cancellation guard, and the derived time-based classifications.
type ReservationService struct {
	hotels   repo.HotelRepo
	bookings repo.BookingRepo
	reviews  repo.ReviewRepo
	offers   *offer.Resolver
	gateway  payment.Gateway
	pricer   *pricing.Calculator

	currency   string
	payTimeout time.Duration
	now        Clock
}

// NewReservationService constructs a ReservationService from its collaborators.
func NewReservationService(
	hotels repo.HotelRepo,
	bookings repo.BookingRepo,
	reviews repo.ReviewRepo,
	offers *offer.Resolver,
	gateway payment.Gateway,
	pricer *pricing.Calculator,
	cfg ReservationConfig,
) *ReservationService {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 5 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReservationService{
		hotels:     hotels,
		bookings:   bookings,
		reviews:    reviews,
		offers:     offers,
		gateway:    gateway,
		pricer:     pricer,
		currency:   cfg.Currency,
		payTimeout: cfg.PaymentTimeout,
		now:        cfg.Now,
	}
}

// Create runs the reservation protocol:
//
//	validate → resolve offer → price → charge → persist → commit redemption.
//
// The ordering is deliberate. Payment happens before persistence so no
// booking record exists for a declined charge, and the offer redemption is
// committed only after the booking row is stored — a failed booking must
// never consume the user's one-time use of a code.
//
// Returns domain.ErrUnauthorized, domain.ErrValidation, domain.ErrNotFound
// (unknown hotel), domain.ErrInvalidOfferCode, domain.ErrAlreadyRedeemed, or
// domain.ErrPaymentFailed for the expected failure modes.
func (s *ReservationService) Create(ctx context.Context, userID uuid.UUID, draft domain.BookingDraft) (domain.Booking, error) {
	if userID == uuid.Nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", domain.ErrUnauthorized)
	}
	if err := validateDraft(draft); err != nil {
		return domain.Booking{}, err
	}

	hotel, err := s.hotels.GetByID(ctx, draft.HotelID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}

	// Offer codes do not stack with the hotel's own discount: a supplied
	// code supersedes it entirely.
	discount := hotel.DiscountPercent
	var code string
	if draft.OfferCode != "" {
		oc, err := s.offers.Lookup(draft.OfferCode)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", err)
		}
		used, err := s.offers.CheckRedeemed(ctx, userID, oc.Code)
		if err != nil {
			return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", err)
		}
		if used {
			// Abort before any charge is attempted. The pre-check is not
			// the final guard — the store's unique key is — but it keeps
			// an already-spent code from reaching payment.
			return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", domain.ErrAlreadyRedeemed)
		}
		discount = oc.DiscountPercent
		code = oc.Code
	}

	total, err := s.pricer.Total(hotel.RateMinor, draft.Dates.Nights(), draft.Guests, discount)
	if err != nil {
		return domain.Booking{}, err
	}

	chargeCtx, cancel := context.WithTimeout(ctx, s.payTimeout)
	defer cancel()

	charged, err := s.gateway.Charge(chargeCtx, payment.Request{
		AmountMinor:   total,
		Currency:      s.currency,
		OrderRef:      uuid.NewString(),
		CustomerName:  draft.Guest.Name,
		CustomerEmail: draft.Guest.Email,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w: %s", domain.ErrPaymentFailed, err)
	}

	created, err := s.bookings.Insert(ctx, domain.Booking{
		HotelID:    hotel.ID,
		UserID:     userID,
		Dates:      draft.Dates,
		Guests:     draft.Guests,
		RoomType:   draft.RoomType,
		TotalMinor: total,
		Currency:   s.currency,
		Status:     domain.StatusConfirmed,
		PaymentRef: charged.PaymentRef,
		OfferCode:  code,
		Guest:      draft.Guest,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}

	if code != "" {
		// The booking is already stored and charged; losing the redemption
		// race here (a concurrent booking with the same code) does not fail
		// the reservation, only the code bookkeeping.
		if err := s.offers.Redeem(ctx, userID, code); err != nil {
			slog.WarnContext(ctx, "offer redemption failed after booking was stored",
				"booking_id", created.ID, "code", code, "error", err)
		}
	}

	return created, nil
}

// Cancel flips a booking to cancelled, subject to the cancellation guard:
// only confirmed bookings with strictly more than 24 hours before check-in
// qualify. Bookings owned by other users are reported as not found.
// Refund processing is external and asynchronous — Cancel only flips status.
func (s *ReservationService) Cancel(ctx context.Context, userID, bookingID uuid.UUID) (domain.Booking, error) {
	if userID == uuid.Nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Cancel: %w", domain.ErrUnauthorized)
	}

	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Cancel: %w", err)
	}

	if !b.CancellableAt(s.now()) {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Cancel: %w", domain.ErrNotCancellable)
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, domain.StatusCancelled); err != nil {
		return domain.Booking{}, fmt.Errorf("service.ReservationService.Cancel: %w", err)
	}
	b.Status = domain.StatusCancelled
	return b, nil
}

// ListForUser returns the user's bookings paired with their derived
// classification and cancellability, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ReservationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BookingView, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("service.ReservationService.ListForUser: %w", domain.ErrUnauthorized)
	}

	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListForUser: %w", err)
	}

	now := s.now()
	views := make([]domain.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, domain.BookingView{
			Booking:        b,
			Classification: b.ClassifyAt(now),
			Cancellable:    b.CancellableAt(now),
		})
	}
	return views, nil
}

// GetForUser returns a single booking with its derived state.
func (s *ReservationService) GetForUser(ctx context.Context, userID, bookingID uuid.UUID) (domain.BookingView, error) {
	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return domain.BookingView{}, fmt.Errorf("service.ReservationService.GetForUser: %w", err)
	}
	now := s.now()
	return domain.BookingView{
		Booking:        b,
		Classification: b.ClassifyAt(now),
		Cancellable:    b.CancellableAt(now),
	}, nil
}

// ReviewEligible reports whether the user may review the hotel of this
// booking: the stay must be completed and the user must not already have a
// review on record for the hotel (one review per user per hotel).
func (s *ReservationService) ReviewEligible(ctx context.Context, userID, bookingID uuid.UUID) (bool, error) {
	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return false, fmt.Errorf("service.ReservationService.ReviewEligible: %w", err)
	}

	if b.ClassifyAt(s.now()) != domain.ClassCompleted {
		return false, nil
	}

	exists, err := s.reviews.Exists(ctx, userID, b.HotelID)
	if err != nil {
		return false, fmt.Errorf("service.ReservationService.ReviewEligible: %w", err)
	}
	return !exists, nil
}

// Rebook returns a draft pre-filled from a completed booking. It is not a
// state transition on the existing booking — the caller feeds the draft back
// into Create with fresh dates.
func (s *ReservationService) Rebook(ctx context.Context, userID, bookingID uuid.UUID) (domain.BookingDraft, error) {
	b, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return domain.BookingDraft{}, fmt.Errorf("service.ReservationService.Rebook: %w", err)
	}

	if b.ClassifyAt(s.now()) != domain.ClassCompleted {
		return domain.BookingDraft{}, fmt.Errorf("%w: only completed stays can be rebooked", domain.ErrValidation)
	}

	return domain.BookingDraft{
		HotelID:  b.HotelID,
		Guests:   b.Guests,
		RoomType: b.RoomType,
		Guest:    b.Guest,
	}, nil
}

// ownedBooking loads a booking and enforces ownership. A booking owned by a
// different user is indistinguishable from a missing one.
func (s *ReservationService) ownedBooking(ctx context.Context, userID, bookingID uuid.UUID) (domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.UserID != userID {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

// validateDraft enforces the creation-time business rules.
// Everything here is checked before any external call is made.
func validateDraft(draft domain.BookingDraft) error {
	if draft.HotelID == uuid.Nil {
		return fmt.Errorf("%w: hotel id is required", domain.ErrValidation)
	}
	if err := draft.Dates.Validate(); err != nil {
		return err
	}
	if draft.Guests < 1 {
		return fmt.Errorf("%w: at least one guest is required", domain.ErrValidation)
	}
	if err := draft.Guest.Validate(); err != nil {
		return err
	}
	return nil
}
