package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instastay/booking-api/internal/identity"
	"github.com/instastay/booking-api/internal/middleware"
)

func TestUserExtractor_ValidHeader_SetsUser(t *testing.T) {
	want := uuid.New()
	var got uuid.UUID
	var ok bool

	h := middleware.NewUserExtractor()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = identity.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("X-User-ID", want.String())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestUserExtractor_MissingHeader_NoUser(t *testing.T) {
	var ok bool

	h := middleware.NewUserExtractor()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = identity.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, ok, "no user must be present without the header")
}

func TestUserExtractor_MalformedHeader_NoUser(t *testing.T) {
	var ok bool

	h := middleware.NewUserExtractor()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = identity.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
	req.Header.Set("X-User-ID", "not-a-uuid")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, ok, "a malformed id must be treated as unauthenticated")
}
