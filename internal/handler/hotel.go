package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/instastay/booking-api/internal/catalog"
	"github.com/instastay/booking-api/internal/domain"
)

type hotelResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Location          string    `json:"location"`
	RateMinor         int64     `json:"rate_minor"`
	OriginalRateMinor *int64    `json:"original_rate_minor,omitempty"`
	Rating            float64   `json:"rating"`
	ReviewCount       int       `json:"review_count"`
	Amenities         []string  `json:"amenities"`
	DiscountPercent   float64   `json:"discount_percent,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type hotelListResponse struct {
	Data []hotelResponse `json:"data"`
}

// ListHotels handles GET /hotels.
// Query parameters: q (name/location substring), min_price, max_price
// (inclusive minor units), min_rating, amenities (comma-separated, all
// required), sort (popular|price-low|price-high|rating|reviews).
// Filtering and sorting happen in-process over the cached catalog.
func (s *Server) ListHotels(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	hotels, err := s.hotels.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filtered := catalog.Apply(hotels, filter)
	data := make([]hotelResponse, len(filtered))
	for i, h := range filtered {
		data[i] = hotelToResponse(h)
	}
	writeJSON(w, http.StatusOK, hotelListResponse{Data: data})
}

// GetHotel handles GET /hotels/{id}.
func (s *Server) GetHotel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	hotel, err := s.hotels.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hotelToResponse(hotel))
}

// ---- mapping helpers --------------------------------------------------------

type queryError string

func (e queryError) Error() string { return string(e) }

func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.Filter{
		SearchText: q.Get("q"),
		SortKey:    catalog.SortKey(q.Get("sort")),
	}
	if f.SortKey == "" {
		f.SortKey = catalog.SortPopular
	}

	var err error
	if f.MinPriceMinor, err = int64Param(q.Get("min_price")); err != nil {
		return catalog.Filter{}, queryError("min_price must be an integer")
	}
	if f.MaxPriceMinor, err = int64Param(q.Get("max_price")); err != nil {
		return catalog.Filter{}, queryError("max_price must be an integer")
	}
	if f.MinRating, err = floatParam(q.Get("min_rating")); err != nil {
		return catalog.Filter{}, queryError("min_rating must be a number")
	}

	if raw := q.Get("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(a); t != "" {
				f.RequiredAmenities = append(f.RequiredAmenities, t)
			}
		}
	}
	return f, nil
}

func int64Param(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func hotelToResponse(h domain.Hotel) hotelResponse {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return hotelResponse{
		ID:                h.ID,
		Name:              h.Name,
		Location:          h.Location,
		RateMinor:         h.RateMinor,
		OriginalRateMinor: h.OriginalRateMinor,
		Rating:            h.Rating,
		ReviewCount:       h.ReviewCount,
		Amenities:         amenities,
		DiscountPercent:   h.DiscountPercent,
		CreatedAt:         h.CreatedAt,
	}
}
