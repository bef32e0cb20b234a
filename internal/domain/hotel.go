// Package domain contains the core data types for the booking API.
// This package has no dependencies on other internal packages and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is a catalog entry. The core only ever reads hotel records;
// catalog maintenance is an external concern.
//
// All monetary values are integer minor currency units (e.g. paise).
// DiscountPercent is the hotel's own promotional discount; 0 means none.
// It is superseded, never stacked, when a booking supplies an offer code.
type Hotel struct {
	ID                uuid.UUID
	Name              string
	Location          string
	RateMinor         int64
	OriginalRateMinor *int64 // pre-discount rate; nil when not discounted
	Rating            float64
	ReviewCount       int
	Amenities         []string
	DiscountPercent   float64
	CreatedAt         time.Time
}

// OfferCode maps a promo code to its discount.
// The registry of codes is a fixed read-only lookup; only redemption
// state (who has used which code) is persistent.
type OfferCode struct {
	Code            string
	DiscountPercent float64
	Description     string
}
