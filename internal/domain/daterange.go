package domain

import (
	"fmt"
	"math"
	"time"
)

// DateRange is a (check-in, check-out) pair of calendar dates.
// Both dates carry day granularity only — callers must truncate any
// time-of-day component before constructing a range.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Nights returns the number of nights covered by the range.
// Returns 0 (never negative) when CheckOut is on or before CheckIn;
// callers must treat 0 as "invalid range, do not price".
func (r DateRange) Nights() int {
	d := r.CheckOut.Sub(r.CheckIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// Validate returns ErrValidation unless the range covers at least one night.
func (r DateRange) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return fmt.Errorf("%w: check-in and check-out dates are required", ErrValidation)
	}
	if r.Nights() < 1 {
		return fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	return nil
}
