package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/instastay/booking-api/internal/domain"
)

// HotelStore is the slice of the hotel repository the catalog needs.
type HotelStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error)
	List(ctx context.Context) ([]domain.Hotel, error)
}

// listKey is the single cache key for the full catalog listing.
const listKey = "catalog"

// CachedCatalog serves the hotel listing through a TTL cache, so browsing
// traffic does not hit the database on every filter keystroke.
// The TTL is injected; expiry is handled by the expirable LRU. GetByID is
// an uncached pass-through — single-record reads are cheap and staleness
// there would affect pricing.
type CachedCatalog struct {
	store HotelStore
	cache *expirable.LRU[string, []domain.Hotel]
}

// NewCachedCatalog wraps store with a listing cache that expires after ttl.
func NewCachedCatalog(store HotelStore, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		store: store,
		cache: expirable.NewLRU[string, []domain.Hotel](1, nil, ttl),
	}
}

// List returns the full catalog, from cache when fresh.
func (c *CachedCatalog) List(ctx context.Context) ([]domain.Hotel, error) {
	if hotels, ok := c.cache.Get(listKey); ok {
		return hotels, nil
	}
	hotels, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.CachedCatalog.List: %w", err)
	}
	c.cache.Add(listKey, hotels)
	return hotels, nil
}

// GetByID fetches a single hotel directly from the store.
func (c *CachedCatalog) GetByID(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	hotel, err := c.store.GetByID(ctx, id)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("catalog.CachedCatalog.GetByID: %w", err)
	}
	return hotel, nil
}
