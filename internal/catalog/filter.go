// Package catalog provides browsing support over the hotel catalog:
// a pure filter/sort engine and a TTL cache in front of the hotel store.
package catalog

import (
	"sort"
	"strings"

	"github.com/instastay/booking-api/internal/domain"
)

// SortKey selects the ordering of filtered results.
type SortKey string

const (
	SortPopular   SortKey = "popular"    // keep catalog order, no resort
	SortPriceLow  SortKey = "price-low"  // ascending by nightly rate
	SortPriceHigh SortKey = "price-high" // descending by nightly rate
	SortRating    SortKey = "rating"     // descending by rating
	SortReviews   SortKey = "reviews"    // descending by review count
)

// Filter narrows and orders a hotel catalog.
// Zero values mean "no filtering" for each criterion: empty SearchText,
// MinRating 0, and MaxPriceMinor 0 (unbounded) all pass everything through.
type Filter struct {
	SearchText        string
	MinPriceMinor     int64
	MaxPriceMinor     int64
	MinRating         float64
	RequiredAmenities []string
	SortKey           SortKey
}

// Apply returns the hotels matching f, ordered by f.SortKey.
// It is a pure, synchronous function of its inputs: the input slice is
// never mutated, and the sort is stable so equal keys keep their original
// relative order across repeated calls.
func Apply(hotels []domain.Hotel, f Filter) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		if matches(h, f) {
			out = append(out, h)
		}
	}

	switch f.SortKey {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].RateMinor < out[j].RateMinor })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].RateMinor > out[j].RateMinor })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortReviews:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReviewCount > out[j].ReviewCount })
	default:
		// SortPopular (and any unknown key) keeps the catalog order.
	}

	return out
}

func matches(h domain.Hotel, f Filter) bool {
	if q := strings.TrimSpace(f.SearchText); q != "" {
		q = strings.ToLower(q)
		if !strings.Contains(strings.ToLower(h.Name), q) &&
			!strings.Contains(strings.ToLower(h.Location), q) {
			return false
		}
	}
	if h.RateMinor < f.MinPriceMinor {
		return false
	}
	if f.MaxPriceMinor > 0 && h.RateMinor > f.MaxPriceMinor {
		return false
	}
	if h.Rating < f.MinRating {
		return false
	}
	for _, want := range f.RequiredAmenities {
		if !hasAmenity(h, want) {
			return false
		}
	}
	return true
}

func hasAmenity(h domain.Hotel, want string) bool {
	for _, a := range h.Amenities {
		if strings.EqualFold(a, want) {
			return true
		}
	}
	return false
}
