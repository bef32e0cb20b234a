package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/instastay/booking-api/internal/domain"
)

// ---- request/response shapes -----------------------------------------------

type guestDetailsPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// createBookingRequest is the POST /bookings body. Dates are calendar days
// ("2006-01-02"); the total is intentionally absent — it is always computed
// server-side.
type createBookingRequest struct {
	HotelID   uuid.UUID           `json:"hotel_id"`
	CheckIn   openapi_types.Date  `json:"check_in"`
	CheckOut  openapi_types.Date  `json:"check_out"`
	Guests    int                 `json:"guests"`
	RoomType  string              `json:"room_type"`
	Guest     guestDetailsPayload `json:"guest"`
	OfferCode *string             `json:"offer_code,omitempty"`
}

type bookingResponse struct {
	ID             uuid.UUID             `json:"id"`
	HotelID        uuid.UUID             `json:"hotel_id"`
	CheckIn        openapi_types.Date    `json:"check_in"`
	CheckOut       openapi_types.Date    `json:"check_out"`
	Nights         int                   `json:"nights"`
	Guests         int                   `json:"guests"`
	RoomType       string                `json:"room_type,omitempty"`
	TotalMinor     int64                 `json:"total_minor"`
	Currency       string                `json:"currency"`
	Status         domain.BookingStatus  `json:"status"`
	PaymentRef     string                `json:"payment_ref,omitempty"`
	OfferCode      string                `json:"offer_code,omitempty"`
	Guest          guestDetailsPayload   `json:"guest"`
	Classification domain.Classification `json:"classification,omitempty"`
	Cancellable    *bool                 `json:"cancellable,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type bookingListResponse struct {
	Data []bookingResponse `json:"data"`
}

type reviewEligibilityResponse struct {
	Eligible bool `json:"eligible"`
}

// rebookDraftResponse is the pre-filled starting point for a fresh Create
// flow. Dates are deliberately absent — the caller picks new ones.
type rebookDraftResponse struct {
	HotelID  uuid.UUID           `json:"hotel_id"`
	Guests   int                 `json:"guests"`
	RoomType string              `json:"room_type,omitempty"`
	Guest    guestDetailsPayload `json:"guest"`
}

// ---- handlers --------------------------------------------------------------

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body is invalid")
		return
	}

	created, err := s.bookings.Create(r.Context(), userID, requestToDraft(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookingToResponse(created))
}

// ListBookings handles GET /bookings — the current user's bookings with
// their derived classification, newest first.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	views, err := s.bookings.ListForUser(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data := make([]bookingResponse, len(views))
	for i, v := range views {
		data[i] = viewToResponse(v)
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Data: data})
}

// GetBooking handles GET /bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	view, err := s.bookings.GetForUser(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewToResponse(view))
}

// CancelBooking handles POST /bookings/{id}/cancel.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cancelled, err := s.bookings.Cancel(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookingToResponse(cancelled))
}

// GetReviewEligibility handles GET /bookings/{id}/review-eligibility.
func (s *Server) GetReviewEligibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	eligible, err := s.bookings.ReviewEligible(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewEligibilityResponse{Eligible: eligible})
}

// GetRebookDraft handles GET /bookings/{id}/rebook.
func (s *Server) GetRebookDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	draft, err := s.bookings.Rebook(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rebookDraftResponse{
		HotelID:  draft.HotelID,
		Guests:   draft.Guests,
		RoomType: draft.RoomType,
		Guest:    guestToPayload(draft.Guest),
	})
}

// ---- mapping helpers --------------------------------------------------------

func requestToDraft(req createBookingRequest) domain.BookingDraft {
	draft := domain.BookingDraft{
		HotelID:  req.HotelID,
		Dates:    domain.DateRange{CheckIn: req.CheckIn.Time, CheckOut: req.CheckOut.Time},
		Guests:   req.Guests,
		RoomType: req.RoomType,
		Guest: domain.GuestDetails{
			Name:  req.Guest.Name,
			Email: req.Guest.Email,
			Phone: req.Guest.Phone,
		},
	}
	if req.OfferCode != nil {
		draft.OfferCode = *req.OfferCode
	}
	return draft
}

func guestToPayload(g domain.GuestDetails) guestDetailsPayload {
	return guestDetailsPayload{Name: g.Name, Email: g.Email, Phone: g.Phone}
}

func bookingToResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		HotelID:    b.HotelID,
		CheckIn:    openapi_types.Date{Time: b.Dates.CheckIn},
		CheckOut:   openapi_types.Date{Time: b.Dates.CheckOut},
		Nights:     b.Dates.Nights(),
		Guests:     b.Guests,
		RoomType:   b.RoomType,
		TotalMinor: b.TotalMinor,
		Currency:   b.Currency,
		Status:     b.Status,
		PaymentRef: b.PaymentRef,
		OfferCode:  b.OfferCode,
		Guest:      guestToPayload(b.Guest),
		CreatedAt:  b.CreatedAt,
	}
}

func viewToResponse(v domain.BookingView) bookingResponse {
	resp := bookingToResponse(v.Booking)
	resp.Classification = v.Classification
	cancellable := v.Cancellable
	resp.Cancellable = &cancellable
	return resp
}
