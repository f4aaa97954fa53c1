package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

var _ Repository = (*CachedRepository)(nil)

// CachedRepository caches city-scoped lookups in front of another
// repository. The catalog is read-mostly, so entries just expire on a TTL;
// singleflight collapses concurrent fills of the same key, and a racing
// overwrite of an entry is harmless.
type CachedRepository struct {
	inner Repository
	cache *gocache.Cache
	group singleflight.Group
}

// NewCachedRepository wraps inner with a TTL cache. Expired entries are
// purged at twice the TTL.
func NewCachedRepository(inner Repository, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (r *CachedRepository) FindByCityAndFilters(ctx context.Context, city string, minRating float64, attractionTypes []string) ([]*types.Attraction, error) {
	key := fmt.Sprintf("filters:%s:%.2f:%s", city, minRating, strings.Join(attractionTypes, ","))
	return r.lookup(key, func() ([]*types.Attraction, error) {
		return r.inner.FindByCityAndFilters(ctx, city, minRating, attractionTypes)
	})
}

func (r *CachedRepository) FindByCity(ctx context.Context, city string, limit int) ([]*types.Attraction, error) {
	key := fmt.Sprintf("city:%s:%d", city, limit)
	return r.lookup(key, func() ([]*types.Attraction, error) {
		return r.inner.FindByCity(ctx, city, limit)
	})
}

// FindByNameAndCity is a point lookup on the hot path of user-selected
// attractions only; it goes straight through.
func (r *CachedRepository) FindByNameAndCity(ctx context.Context, name, city string) (*types.Attraction, error) {
	return r.inner.FindByNameAndCity(ctx, name, city)
}

func (r *CachedRepository) First(ctx context.Context) (*types.Attraction, error) {
	return r.inner.First(ctx)
}

func (r *CachedRepository) lookup(key string, fill func() ([]*types.Attraction, error)) ([]*types.Attraction, error) {
	if cached, ok := r.cache.Get(key); ok {
		return cached.([]*types.Attraction), nil
	}

	result, err, _ := r.group.Do(key, func() (any, error) {
		attractions, err := fill()
		if err != nil {
			return nil, err
		}
		r.cache.SetDefault(key, attractions)
		return attractions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*types.Attraction), nil
}
