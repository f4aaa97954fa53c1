package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/pricing"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// Per-day flat estimates. Tickets assume three paid attractions a day at an
// average gate price; local transport and the misc bucket are city averages.
const (
	ticketsPerDay       = 3
	avgTicketPrice      = 50.0
	localTransportDaily = 100.0
	miscDaily           = 50.0
	intercityPerKm      = 0.5
)

// Preference defaults when the request leaves them empty.
const (
	defaultHotelType   = "经济型酒店"
	defaultDiningType  = "中餐"
	defaultMealsPerDay = 3
)

// BudgetEstimator derives a cost estimate from trip shape and preferences.
// Price lookups degrade to a zero contribution instead of failing the trip.
type BudgetEstimator struct {
	logger *slog.Logger
	prices pricing.PriceLookup
}

func NewBudgetEstimator(prices pricing.PriceLookup, logger *slog.Logger) *BudgetEstimator {
	return &BudgetEstimator{logger: logger, prices: prices}
}

// Estimate computes the trip budget. The same inputs always produce the
// same numbers.
func (b *BudgetEstimator) Estimate(ctx context.Context, startCity, targetCity string, days int, prefs types.TripPreferences) types.Budget {
	if days < 1 {
		days = 1
	}

	hotelType := prefs.HotelType
	if hotelType == "" {
		hotelType = defaultHotelType
	}
	diningType := prefs.DiningType
	if diningType == "" {
		diningType = defaultDiningType
	}
	meals := prefs.MealsPerDay
	if meals <= 0 {
		meals = defaultMealsPerDay
	}

	nightly := b.lookup(ctx, "hotel", hotelType, func() (float64, error) {
		return b.prices.AvgNightly(ctx, targetCity, hotelType)
	})
	mealPrice := b.lookup(ctx, "dining", diningType, func() (float64, error) {
		return b.prices.AvgMeal(ctx, targetCity, diningType)
	})

	d := float64(days)
	lodging := nightly * d
	dining := mealPrice * float64(meals) * d
	tickets := d * ticketsPerDay * avgTicketPrice
	intercity := geo.CityDistance(startCity, targetCity) * intercityPerKm
	local := d * localTransportDaily
	other := d * miscDaily

	total := lodging + dining + tickets + intercity + local + other

	budget := types.Budget{
		TotalCost: round2(total),
		Breakdown: types.BudgetBreakdown{
			Lodging:            round2(lodging),
			Dining:             round2(dining),
			Tickets:            round2(tickets),
			Transport:          round2(intercity + local),
			IntercityTransport: round2(intercity),
			LocalTransport:     round2(local),
			Other:              round2(other),
		},
		Suggestions: suggestions(total, d, intercity),
	}
	return budget
}

// lookup wraps a price query; a failure logs and contributes nothing.
func (b *BudgetEstimator) lookup(ctx context.Context, kind, name string, fn func() (float64, error)) float64 {
	price, err := fn()
	if err != nil {
		b.logger.WarnContext(ctx, "price lookup failed, omitting from budget",
			slog.String("kind", kind), slog.String("type", name), slog.Any("error", err))
		return 0
	}
	return price
}

func suggestions(total, days, intercity float64) []string {
	out := []string{
		fmt.Sprintf("人均预算约%.0f元/天，可根据酒店和餐饮档次调整", total/days),
		"提前预订酒店和景点门票通常更优惠",
	}
	if intercity > 0 {
		out = append(out, "城际交通按高铁二等座估算，建议提前购票")
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
