package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// countingRepository records how often each lookup reaches the backing store.
type countingRepository struct {
	mu    sync.Mutex
	calls int
	inner Repository
}

func (c *countingRepository) FindByCityAndFilters(ctx context.Context, city string, minRating float64, attractionTypes []string) ([]*types.Attraction, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.FindByCityAndFilters(ctx, city, minRating, attractionTypes)
}

func (c *countingRepository) FindByCity(ctx context.Context, city string, limit int) ([]*types.Attraction, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.inner.FindByCity(ctx, city, limit)
}

func (c *countingRepository) FindByNameAndCity(ctx context.Context, name, city string) (*types.Attraction, error) {
	return c.inner.FindByNameAndCity(ctx, name, city)
}

func (c *countingRepository) First(ctx context.Context) (*types.Attraction, error) {
	return c.inner.First(ctx)
}

func seedAttractions(city string, n int) []*types.Attraction {
	attractions := make([]*types.Attraction, 0, n)
	for i := 0; i < n; i++ {
		rating := 4.0 + float64(i%10)/10
		lat, lon := 41.0+float64(i)*0.01, 123.0+float64(i)*0.01
		attractions = append(attractions, &types.Attraction{
			ID:        uuid.New(),
			Name:      city + "景点" + string(rune('A'+i)),
			City:      city,
			Type:      "风景区",
			Rating:    &rating,
			Latitude:  &lat,
			Longitude: &lon,
		})
	}
	return attractions
}

func TestCachedRepository_ServesFromCache(t *testing.T) {
	counting := &countingRepository{inner: NewInMemoryRepository(seedAttractions("沈阳", 5))}
	cached := NewCachedRepository(counting, time.Minute)

	ctx := context.Background()
	first, err := cached.FindByCityAndFilters(ctx, "沈阳", 0, nil)
	require.NoError(t, err)
	second, err := cached.FindByCityAndFilters(ctx, "沈阳", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, counting.calls)
}

func TestCachedRepository_DistinctKeysMiss(t *testing.T) {
	counting := &countingRepository{inner: NewInMemoryRepository(seedAttractions("沈阳", 5))}
	cached := NewCachedRepository(counting, time.Minute)

	ctx := context.Background()
	_, err := cached.FindByCityAndFilters(ctx, "沈阳", 0, nil)
	require.NoError(t, err)
	_, err = cached.FindByCityAndFilters(ctx, "沈阳", 4.5, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, counting.calls)
}

func TestCachedRepository_ConcurrentFillIsCollapsed(t *testing.T) {
	counting := &countingRepository{inner: NewInMemoryRepository(seedAttractions("大连", 5))}
	cached := NewCachedRepository(counting, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.FindByCity(context.Background(), "大连", 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Singleflight collapses simultaneous fills; allow a straggler that
	// started after the first fill completed but before the cache write.
	assert.LessOrEqual(t, counting.calls, 2)
}

func TestInMemoryRepository_Lookups(t *testing.T) {
	attractions := seedAttractions("鞍山", 3)
	repo := NewInMemoryRepository(attractions)
	ctx := context.Background()

	t.Run("find by city respects limit", func(t *testing.T) {
		got, err := repo.FindByCity(ctx, "鞍山市", 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("min rating filters", func(t *testing.T) {
		got, err := repo.FindByCityAndFilters(ctx, "鞍山", 4.15, nil)
		require.NoError(t, err)
		for _, a := range got {
			assert.GreaterOrEqual(t, *a.Rating, 4.15)
		}
		assert.Less(t, len(got), len(attractions))
	})

	t.Run("fuzzy name fallback", func(t *testing.T) {
		got, err := repo.FindByNameAndCity(ctx, "景点A", "鞍山")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "鞍山景点A", got.Name)
	})

	t.Run("unknown city yields nothing", func(t *testing.T) {
		got, err := repo.FindByCity(ctx, "北京", 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
