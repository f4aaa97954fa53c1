package itinerary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/pricing"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

func newBudgetEstimator() *BudgetEstimator {
	return NewBudgetEstimator(pricing.NewTableLookup(), testLogger())
}

func TestBudgetEstimator_SameCityDefaults(t *testing.T) {
	b := newBudgetEstimator()

	got := b.Estimate(context.Background(), "沈阳", "沈阳", 3, types.TripPreferences{})

	// 经济型酒店 200/night, 中餐 100/meal, 3 meals a day.
	assert.Equal(t, 600.0, got.Breakdown.Lodging)
	assert.Equal(t, 900.0, got.Breakdown.Dining)
	assert.Equal(t, 450.0, got.Breakdown.Tickets)
	assert.Equal(t, 0.0, got.Breakdown.IntercityTransport)
	assert.Equal(t, 300.0, got.Breakdown.LocalTransport)
	assert.Equal(t, 300.0, got.Breakdown.Transport)
	assert.Equal(t, 150.0, got.Breakdown.Other)
	assert.Equal(t, 2400.0, got.TotalCost)

	require.NotEmpty(t, got.Suggestions)
}

func TestBudgetEstimator_CrossCityAddsIntercity(t *testing.T) {
	b := newBudgetEstimator()

	got := b.Estimate(context.Background(), "沈阳", "大连", 2, types.TripPreferences{})

	wantIntercity := round2(geo.CityDistance("沈阳", "大连") * intercityPerKm)
	assert.Greater(t, wantIntercity, 0.0)
	assert.InDelta(t, wantIntercity, got.Breakdown.IntercityTransport, 1e-9)
	assert.InDelta(t, wantIntercity+200.0, got.Breakdown.Transport, 1e-9)
}

func TestBudgetEstimator_PreferenceOverrides(t *testing.T) {
	b := newBudgetEstimator()

	got := b.Estimate(context.Background(), "大连", "大连", 2, types.TripPreferences{
		HotelType:   "豪华酒店",
		DiningType:  "海鲜",
		MealsPerDay: 2,
	})

	// 豪华酒店 1050/night, 海鲜 275/meal.
	assert.Equal(t, 2100.0, got.Breakdown.Lodging)
	assert.Equal(t, 1100.0, got.Breakdown.Dining)
}

func TestBudgetEstimator_UnknownTypesDegradeToZero(t *testing.T) {
	b := newBudgetEstimator()

	got := b.Estimate(context.Background(), "沈阳", "沈阳", 1, types.TripPreferences{
		HotelType:  "太空舱",
		DiningType: "分子料理",
	})

	assert.Equal(t, 0.0, got.Breakdown.Lodging)
	assert.Equal(t, 0.0, got.Breakdown.Dining)
	// The flat per-day components still count.
	assert.Equal(t, 150.0+100.0+50.0, got.TotalCost)
}

func TestBudgetEstimator_Deterministic(t *testing.T) {
	b := newBudgetEstimator()
	ctx := context.Background()

	prefs := types.TripPreferences{HotelType: "经济型酒店", DiningType: "中餐"}
	first := b.Estimate(ctx, "沈阳", "大连", 4, prefs)
	second := b.Estimate(ctx, "沈阳", "大连", 4, prefs)

	assert.Equal(t, first, second)
}
