package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. check-out on or before check-in, zero guests,
// missing guest contact fields).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when an operation that requires an
// authenticated user is attempted without one.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("authentication required")

// ErrInvalidOfferCode is returned when a supplied offer code does not exist
// in the registry. Deliberately distinct from ErrAlreadyRedeemed so the
// caller can show "invalid code" rather than "already used".
var ErrInvalidOfferCode = errors.New("invalid offer code")

// ErrAlreadyRedeemed is returned when the (user, code) pair has already been
// recorded — the user has spent their one-time use of the code.
var ErrAlreadyRedeemed = errors.New("offer code already redeemed")

// ErrPaymentFailed is returned when the payment gateway declines the charge
// or times out. No booking is created; the caller may resubmit from scratch.
// Handlers should map this to HTTP 402.
var ErrPaymentFailed = errors.New("payment failed")

// ErrNotCancellable is returned when cancellation is attempted on a booking
// in a terminal status or within the cancellation window.
// Handlers should map this to HTTP 409.
var ErrNotCancellable = errors.New("booking cannot be cancelled")
