package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/instastay/booking-api/internal/identity"
)

// userIDHeader carries the authenticated user id resolved by the identity
// layer in front of this API (session service, API gateway, or the local
// dev client). This service trusts the header as-is — verifying it is the
// upstream's job, mirroring how the managed auth provider fronted the app.
const userIDHeader = "X-User-ID"

// NewUserExtractor returns a middleware that places the authenticated user
// id from the X-User-ID header into the request context.
//
// It never rejects a request: endpoints that require a user enforce that
// themselves, so public endpoints (catalog browsing, health) stay open.
func NewUserExtractor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := r.Header.Get(userIDHeader); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					r = r.WithContext(identity.WithUserID(r.Context(), id))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
