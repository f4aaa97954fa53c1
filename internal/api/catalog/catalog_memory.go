package catalog

import (
	"context"
	"strings"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

var _ Repository = (*InMemoryRepository)(nil)

// InMemoryRepository serves attractions from a slice. The demo binary loads
// it from a JSON file; tests seed it directly.
type InMemoryRepository struct {
	attractions []*types.Attraction
}

func NewInMemoryRepository(attractions []*types.Attraction) *InMemoryRepository {
	return &InMemoryRepository{attractions: attractions}
}

func (r *InMemoryRepository) FindByCityAndFilters(ctx context.Context, city string, minRating float64, attractionTypes []string) ([]*types.Attraction, error) {
	city = geo.NormalizeCity(city)
	var matched []*types.Attraction
	for _, a := range r.attractions {
		if geo.NormalizeCity(a.City) != city {
			continue
		}
		if minRating > 0 && (a.Rating == nil || *a.Rating < minRating) {
			continue
		}
		matched = append(matched, a)
	}
	return FilterByTypePreferences(matched, attractionTypes), nil
}

func (r *InMemoryRepository) FindByCity(ctx context.Context, city string, limit int) ([]*types.Attraction, error) {
	city = geo.NormalizeCity(city)
	var matched []*types.Attraction
	for _, a := range r.attractions {
		if geo.NormalizeCity(a.City) != city {
			continue
		}
		matched = append(matched, a)
		if limit > 0 && len(matched) >= limit {
			break
		}
	}
	return matched, nil
}

func (r *InMemoryRepository) FindByNameAndCity(ctx context.Context, name, city string) (*types.Attraction, error) {
	city = geo.NormalizeCity(city)
	for _, a := range r.attractions {
		if a.Name == name && geo.NormalizeCity(a.City) == city {
			return a, nil
		}
	}
	for _, a := range r.attractions {
		if strings.Contains(a.Name, name) && geo.NormalizeCity(a.City) == city {
			return a, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) First(ctx context.Context) (*types.Attraction, error) {
	if len(r.attractions) == 0 {
		return nil, nil
	}
	return r.attractions[0], nil
}
