// Package pricing answers average lodging and dining prices for the budget
// estimator. Prices come from the static per-type range table used across
// the Liaoning itinerary data set; a city or type without data answers 0 so
// its budget contribution degrades instead of failing.
package pricing

import "context"

// PriceLookup is the collaborator contract of the budget estimator.
type PriceLookup interface {
	// AvgNightly returns the average nightly hotel price for a city, or 0
	// when no data exists.
	AvgNightly(ctx context.Context, city, hotelType string) (float64, error)
	// AvgMeal returns the average per-person meal price for a city, or 0
	// when no data exists.
	AvgMeal(ctx context.Context, city, diningType string) (float64, error)
}

type priceRange struct {
	low, high float64
}

func (r priceRange) mid() float64 { return (r.low + r.high) / 2 }

var hotelRanges = map[string]priceRange{
	"经济型酒店": {100, 300},
	"商务酒店":  {300, 600},
	"豪华酒店":  {600, 1500},
	"民宿":    {200, 500},
	"度假酒店":  {500, 1200},
	"青年旅舍":  {50, 150},
	"温泉酒店":  {400, 1000},
}

var diningRanges = map[string]priceRange{
	"中餐": {50, 150},
	"火锅": {80, 200},
	"快餐": {20, 50},
	"烧烤": {60, 180},
	"西餐": {100, 300},
	"海鲜": {150, 400},
}

var _ PriceLookup = (*TableLookup)(nil)

// TableLookup serves the static range table, city-independent.
type TableLookup struct{}

func NewTableLookup() *TableLookup { return &TableLookup{} }

func (l *TableLookup) AvgNightly(ctx context.Context, city, hotelType string) (float64, error) {
	r, ok := hotelRanges[hotelType]
	if !ok {
		return 0, nil
	}
	return r.mid(), nil
}

func (l *TableLookup) AvgMeal(ctx context.Context, city, diningType string) (float64, error) {
	r, ok := diningRanges[diningType]
	if !ok {
		return 0, nil
	}
	return r.mid(), nil
}
