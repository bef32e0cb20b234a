// Package pricing computes booking totals. Every function is pure so the
// same code produces both the live preview total and the amount actually
// charged — the two can never drift.
//
// Monetary inputs and the final total are integer minor currency units.
// Intermediate discount/tax steps work in float64 and the result is rounded
// exactly once, half-up, at the end of Total.
package pricing

import (
	"fmt"
	"math"

	"github.com/instastay/booking-api/internal/domain"
)

// DefaultTaxPercent is the GST rate applied when no override is configured.
const DefaultTaxPercent = 18.0

// Calculator applies the configured tax rate on top of the pure helpers.
type Calculator struct {
	taxPercent float64
}

// NewCalculator returns a Calculator with the given tax percent.
// Values below 0 are treated as 0.
func NewCalculator(taxPercent float64) *Calculator {
	if taxPercent < 0 {
		taxPercent = 0
	}
	return &Calculator{taxPercent: taxPercent}
}

// Subtotal returns rate * nights * guests in minor units.
// Returns domain.ErrValidation when any factor is out of range — a zero or
// negative night count must never produce a chargeable amount.
func Subtotal(rateMinor int64, nights, guests int) (int64, error) {
	if rateMinor <= 0 {
		return 0, fmt.Errorf("%w: nightly rate must be positive", domain.ErrValidation)
	}
	if nights <= 0 {
		return 0, fmt.Errorf("%w: stay must cover at least one night", domain.ErrValidation)
	}
	if guests < 1 {
		return 0, fmt.Errorf("%w: at least one guest is required", domain.ErrValidation)
	}
	return rateMinor * int64(nights) * int64(guests), nil
}

// ApplyDiscount reduces amount by percent. Percent is clamped to [0, 100],
// so a wild registry value can never produce a negative amount.
func ApplyDiscount(amount, percent float64) float64 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return amount * (1 - percent/100)
}

// ApplyTax adds the configured tax rate to amount.
func (c *Calculator) ApplyTax(amount float64) float64 {
	return amount * (1 + c.taxPercent/100)
}

// Total composes Subtotal, ApplyDiscount, and ApplyTax, then rounds half-up
// to whole minor units. This is the single entry point external callers
// should use; the steps above are exposed for testability.
func (c *Calculator) Total(rateMinor int64, nights, guests int, discountPercent float64) (int64, error) {
	sub, err := Subtotal(rateMinor, nights, guests)
	if err != nil {
		return 0, err
	}
	taxed := c.ApplyTax(ApplyDiscount(float64(sub), discountPercent))
	return roundHalfUp(taxed), nil
}

// roundHalfUp rounds to the nearest integer, with .5 rounding up.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}
