package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/catalog"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/risk"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/weather"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// Suitability cutoffs: a scheduled stop below dropThreshold is removed for
// that day, and only catalog candidates above backfillThreshold may take
// its place.
const (
	dropThreshold     = 0.3
	backfillThreshold = 0.5
)

// WeatherAdjuster rewrites day plans against a forecast: weather-unsuitable
// stops are swapped for better-suited candidates from the catalog and every
// stop is annotated with a risk assessment.
type WeatherAdjuster struct {
	logger   *slog.Logger
	catalog  catalog.Repository
	assessor risk.Assessor
}

func NewWeatherAdjuster(repo catalog.Repository, assessor risk.Assessor, logger *slog.Logger) *WeatherAdjuster {
	return &WeatherAdjuster{
		logger:   logger,
		catalog:  repo,
		assessor: assessor,
	}
}

// Adjust applies the forecast day by day. Failures are contained per day: a
// day whose adjustment errors keeps its original stops, with the forecast
// attached. Days beyond the forecast horizon pass through untouched.
func (w *WeatherAdjuster) Adjust(ctx context.Context, plans []types.DayPlan, forecasts []types.WeatherDayForecast, targetCity, startCity string) []types.DayPlan {
	scheduled := scheduledKeys(plans)

	out := make([]types.DayPlan, len(plans))
	for i := range plans {
		out[i] = plans[i]
		if i >= len(forecasts) {
			continue
		}
		forecast := forecasts[i]
		out[i].Weather = &forecast

		lastDay := i == len(plans)-1
		adjusted, err := w.adjustDay(ctx, plans[i], &forecast, scheduled, targetCity, startCity, lastDay)
		if err != nil {
			w.logger.WarnContext(ctx, "weather adjustment failed, keeping original day",
				slog.Int("day", plans[i].Day), slog.Any("error", err))
			w.annotate(ctx, &out[i], &forecast)
			continue
		}
		adjusted.Weather = &forecast
		w.annotate(ctx, &adjusted, &forecast)
		out[i] = adjusted
	}
	return out
}

// adjustDay drops weather-unsuitable stops, backfills from the catalog,
// orders the day by suitability and, on the final day of a cross-city trip,
// appends a stop back in the start city.
func (w *WeatherAdjuster) adjustDay(ctx context.Context, plan types.DayPlan, forecast *types.WeatherDayForecast, scheduled map[string]bool, targetCity, startCity string, lastDay bool) (types.DayPlan, error) {
	original := plan.Attractions()

	kept := make([]*types.Attraction, 0, len(original))
	for _, attr := range original {
		if attr == nil {
			continue
		}
		if weather.Suitability(attr, forecast) >= dropThreshold {
			kept = append(kept, attr)
		}
	}

	if len(kept) < len(original) {
		fill, err := w.backfill(ctx, forecast, scheduled, targetCity, len(original)-len(kept))
		if err != nil {
			return types.DayPlan{}, err
		}
		for _, attr := range fill {
			scheduled[attractionKey(attr)] = true
		}
		kept = append(kept, fill...)
	}

	sort.SliceStable(kept, func(a, b int) bool {
		return weather.Suitability(kept[a], forecast) > weather.Suitability(kept[b], forecast)
	})
	if len(kept) > len(original) {
		kept = kept[:len(original)]
	}

	if lastDay && geo.NormalizeCity(startCity) != geo.NormalizeCity(targetCity) {
		returnStop, err := w.returnStop(ctx, startCity, scheduled)
		if err != nil {
			w.logger.DebugContext(ctx, "no return stop available",
				slog.String("start_city", startCity), slog.Any("error", err))
		} else if returnStop != nil {
			scheduled[attractionKey(returnStop)] = true
			kept = append(kept, returnStop)
		}
	}

	adjusted := types.DayPlan{
		Day:      plan.Day,
		Adjusted: !samePath(original, kept),
		Stops:    buildStops(kept),
	}
	return adjusted, nil
}

// backfill pulls up to n well-suited, not yet scheduled attractions of the
// target city, best suitability first.
func (w *WeatherAdjuster) backfill(ctx context.Context, forecast *types.WeatherDayForecast, scheduled map[string]bool, targetCity string, n int) ([]*types.Attraction, error) {
	candidates, err := w.catalog.FindByCity(ctx, targetCity, 0)
	if err != nil {
		return nil, fmt.Errorf("loading backfill candidates for %s: %w", targetCity, err)
	}

	suited := make([]*types.Attraction, 0, len(candidates))
	for _, attr := range candidates {
		if scheduled[attractionKey(attr)] {
			continue
		}
		if weather.Suitability(attr, forecast) > backfillThreshold {
			suited = append(suited, attr)
		}
	}
	sort.SliceStable(suited, func(a, b int) bool {
		return weather.Suitability(suited[a], forecast) > weather.Suitability(suited[b], forecast)
	})

	if len(suited) > n {
		suited = suited[:n]
	}
	return suited, nil
}

// returnStop picks any attraction of the start city for the trip home.
func (w *WeatherAdjuster) returnStop(ctx context.Context, startCity string, scheduled map[string]bool) (*types.Attraction, error) {
	candidates, err := w.catalog.FindByCity(ctx, startCity, 1)
	if err != nil {
		return nil, err
	}
	for _, attr := range candidates {
		if !scheduled[attractionKey(attr)] {
			return attr, nil
		}
	}
	return nil, nil
}

// annotate attaches a risk assessment per stop for the day's forecast.
func (w *WeatherAdjuster) annotate(ctx context.Context, plan *types.DayPlan, forecast *types.WeatherDayForecast) {
	if w.assessor == nil {
		return
	}
	assessments := make([]types.RiskAssessment, 0, len(plan.Stops))
	for _, stop := range plan.Stops {
		if stop.Attraction == nil {
			continue
		}
		a := w.assessor.Assess(ctx, stop.Attraction.Type, forecast)
		assessments = append(assessments, types.RiskAssessment{
			AttractionID:   stop.Attraction.ID,
			AttractionName: stop.Attraction.Name,
			RiskLevel:      a.Level,
			Advice:         a.Advice,
			WeatherFactors: a.WeatherFactors,
		})
	}
	plan.RiskAssessments = assessments
}

func scheduledKeys(plans []types.DayPlan) map[string]bool {
	keys := make(map[string]bool)
	for _, p := range plans {
		for _, s := range p.Stops {
			if s.Attraction != nil {
				keys[attractionKey(s.Attraction)] = true
			}
		}
	}
	return keys
}

func attractionKey(a *types.Attraction) string {
	return geo.NormalizeCity(a.City) + ":" + a.Name
}

func samePath(a, b []*types.Attraction) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
