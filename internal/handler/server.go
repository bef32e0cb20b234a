// Package handler implements the HTTP handlers for the booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (booking.go, hotel.go, offer.go, health.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/instastay/booking-api/internal/domain"
	"github.com/instastay/booking-api/internal/identity"
)

// BookingServicer defines the business operations the booking handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type BookingServicer interface {
	Create(ctx context.Context, userID uuid.UUID, draft domain.BookingDraft) (domain.Booking, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID) (domain.Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.BookingView, error)
	GetForUser(ctx context.Context, userID, bookingID uuid.UUID) (domain.BookingView, error)
	ReviewEligible(ctx context.Context, userID, bookingID uuid.UUID) (bool, error)
	Rebook(ctx context.Context, userID, bookingID uuid.UUID) (domain.BookingDraft, error)
}

// HotelCatalog defines the catalog reads the hotel handlers depend on.
// Satisfied by catalog.CachedCatalog.
type HotelCatalog interface {
	List(ctx context.Context) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error)
}

// OfferServicer defines the offer operations the offer handler depends on.
// Satisfied by offer.Resolver.
type OfferServicer interface {
	Lookup(code string) (domain.OfferCode, error)
	CheckRedeemed(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

// Pinger reports whether the backing store is reachable.
// Satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	bookings BookingServicer
	hotels   HotelCatalog
	offers   OfferServicer
	users    identity.Provider
	pinger   Pinger
}

// NewServer constructs the Server with all its dependencies.
// pinger may be nil; the health endpoint then skips the database check.
func NewServer(bookings BookingServicer, hotels HotelCatalog, offers OfferServicer, users identity.Provider, pinger Pinger) *Server {
	return &Server{bookings: bookings, hotels: hotels, offers: offers, users: users, pinger: pinger}
}

// Routes returns a router with every endpoint registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Get("/hotels", s.ListHotels)
	r.Get("/hotels/{id}", s.GetHotel)

	r.Post("/offers/validate", s.ValidateOffer)

	r.Post("/bookings", s.CreateBooking)
	r.Get("/bookings", s.ListBookings)
	r.Get("/bookings/{id}", s.GetBooking)
	r.Post("/bookings/{id}/cancel", s.CancelBooking)
	r.Get("/bookings/{id}/review-eligibility", s.GetReviewEligibility)
	r.Get("/bookings/{id}/rebook", s.GetRebookDraft)

	return r
}

// writeJSON serializes v with the given status. Encoding failures are
// ignored — by the time Encode fails the status line is already written.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// currentUser resolves the authenticated user, writing a 401 when absent.
// Returns false when the request has already been answered.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := s.users.CurrentUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "sign in to continue")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the {id} URL parameter, writing a 404 for malformed ids.
// A garbage id can never match a real resource, so "not found" is the
// honest answer rather than a validation error.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "not found")
		return uuid.Nil, false
	}
	return id, true
}
