package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the stored status of a booking.
// Status only moves forward: a confirmed booking may become cancelled or
// refunded; cancelled and refunded are terminal.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusRefunded  BookingStatus = "refunded"
)

// Classification is the derived, read-only view of a booking at a point in
// time. It is computed on demand from (status, dates, now) — never stored —
// so every caller sees the same answer for the same instant.
type Classification string

const (
	ClassUpcoming  Classification = "upcoming"  // confirmed, check-in in the future
	ClassActive    Classification = "active"    // confirmed, currently mid-stay
	ClassCompleted Classification = "completed" // check-out has passed, never cancelled
	ClassCancelled Classification = "cancelled" // cancelled or refunded
)

// CancellationWindow is the minimum lead time before check-in required to
// cancel. A booking exactly at the boundary is NOT cancellable — strictly
// more than 24 hours must remain.
const CancellationWindow = 24 * time.Hour

// GuestDetails holds the contact details captured at booking time.
type GuestDetails struct {
	Name  string
	Email string
	Phone string
}

// Validate checks that all contact fields are present and the email parses.
func (g GuestDetails) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: guest name is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(g.Email); err != nil {
		return fmt.Errorf("%w: guest email is invalid", ErrValidation)
	}
	if strings.TrimSpace(g.Phone) == "" {
		return fmt.Errorf("%w: guest phone is required", ErrValidation)
	}
	return nil
}

// BookingDraft is the caller-supplied input to the reservation protocol.
// The total is never part of the draft — it is always recomputed server-side
// from (rate, nights, guests, discount).
type BookingDraft struct {
	HotelID   uuid.UUID
	Dates     DateRange
	Guests    int
	RoomType  string
	Guest     GuestDetails
	OfferCode string // optional; empty means no code
}

// Booking is a persisted reservation.
type Booking struct {
	ID         uuid.UUID
	HotelID    uuid.UUID
	UserID     uuid.UUID
	Dates      DateRange
	Guests     int
	RoomType   string
	TotalMinor int64
	Currency   string
	Status     BookingStatus
	PaymentRef string // opaque reference from the payment gateway
	OfferCode  string // code applied at creation, empty when none
	Guest      GuestDetails
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClassifyAt returns the derived classification of the booking at instant now.
func (b Booking) ClassifyAt(now time.Time) Classification {
	if b.Status == StatusCancelled || b.Status == StatusRefunded {
		return ClassCancelled
	}
	if now.After(b.Dates.CheckOut) {
		return ClassCompleted
	}
	if now.Before(b.Dates.CheckIn) {
		return ClassUpcoming
	}
	return ClassActive
}

// CancellableAt reports whether the booking may be cancelled at instant now.
// Only confirmed bookings with strictly more than CancellationWindow
// remaining before check-in qualify.
func (b Booking) CancellableAt(now time.Time) bool {
	if b.Status != StatusConfirmed {
		return false
	}
	return b.Dates.CheckIn.Sub(now) > CancellationWindow
}

// BookingView pairs a booking with its derived state so list consumers
// (e.g. a dashboard) need no date arithmetic of their own.
type BookingView struct {
	Booking        Booking
	Classification Classification
	Cancellable    bool
}
