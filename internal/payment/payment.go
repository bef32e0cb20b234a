// Package payment defines the gateway contract the reservation protocol
// charges through, plus a deterministic mock implementation.
// Real gateway integration lives outside this repository; anything
// satisfying Gateway can be wired in its place.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDeclined is returned by a gateway when the charge is refused.
var ErrDeclined = errors.New("charge declined")

// Request describes a single charge attempt.
// AmountMinor is in integer minor currency units.
type Request struct {
	AmountMinor   int64
	Currency      string
	OrderRef      string
	CustomerName  string
	CustomerEmail string
}

// Result is a successful charge.
type Result struct {
	// PaymentRef is the gateway's opaque reference for the charge.
	PaymentRef string
}

// Gateway attempts a charge. Implementations must honor ctx cancellation —
// the caller applies a bounded timeout and treats expiry as a failed charge.
type Gateway interface {
	Charge(ctx context.Context, req Request) (Result, error)
}

// MockGateway approves every well-formed charge and mints an opaque
// payment reference. Decline, when set, is consulted first so tests can
// simulate gateway failures per request.
type MockGateway struct {
	Decline func(req Request) error
}

// Charge implements Gateway.
func (g *MockGateway) Charge(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("payment.MockGateway.Charge: %w", err)
	}
	if req.AmountMinor <= 0 {
		return Result{}, fmt.Errorf("payment.MockGateway.Charge: non-positive amount: %w", ErrDeclined)
	}
	if g.Decline != nil {
		if err := g.Decline(req); err != nil {
			return Result{}, fmt.Errorf("payment.MockGateway.Charge: %w", err)
		}
	}
	return Result{PaymentRef: "PAY-" + uuid.NewString()}, nil
}

var _ Gateway = (*MockGateway)(nil)
