// Package itinerary holds the path optimization core: fitness scoring, the
// genetic optimizer, day-plan assembly, weather adjustment and budget
// estimation, orchestrated by Service.
package itinerary

import (
	"context"
	"log/slog"
	"math"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/traffic"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// neutralCrowdScore substitutes for an attraction whose visitor-count
// lookup failed; estimator failures never abort scoring.
const neutralCrowdScore = 0.8

// Evaluator scores candidate paths. Simple is the GA's inner-loop variant;
// Full additionally weighs predicted crowding via the traffic estimator.
type Evaluator struct {
	logger  *slog.Logger
	traffic traffic.Estimator
}

func NewEvaluator(trafficEstimator traffic.Estimator, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		logger:  logger,
		traffic: trafficEstimator,
	}
}

// pathBase accumulates the three terms shared by both variants: total
// rating, inverse total distance and target-city coverage. Pairs with an
// unplaceable endpoint contribute no distance.
func pathBase(path []*types.Attraction, targetCity string) (ratingScore, distanceScore, cityRatio float64) {
	targetCity = geo.NormalizeCity(targetCity)

	var totalDistance, totalRating float64
	var cityHits int
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		if a == nil || b == nil {
			continue
		}

		if d := geo.DistanceBetween(a, b); !math.IsInf(d, 1) {
			totalDistance += d
		}
		totalRating += a.RatingValue()

		if targetCity != "" && geo.NormalizeCity(a.City) == targetCity {
			cityHits++
		}
	}

	n := float64(len(path))
	ratingScore = totalRating / n
	distanceScore = 1 / (totalDistance + 1)
	cityRatio = float64(cityHits) / n
	return ratingScore, distanceScore, cityRatio
}

// Simple scores a path from rating, compactness and target-city coverage
// with weights 0.5/0.3/0.2. Paths shorter than two stops score 0.
func (e *Evaluator) Simple(path []*types.Attraction, targetCity string) float64 {
	if len(path) < 2 {
		return 0
	}
	ratingScore, distanceScore, cityRatio := pathBase(path, targetCity)
	return ratingScore*0.5 + distanceScore*0.3 + cityRatio*0.2
}

// Full scores a path like Simple but adds a crowd-avoidance term from the
// traffic estimator, re-weighted to 0.3/0.3/0.2/0.2. A failed or missing
// visitor prediction contributes the neutral score instead of an error.
func (e *Evaluator) Full(ctx context.Context, path []*types.Attraction, targetCity string, forecast *types.WeatherDayForecast) float64 {
	if len(path) < 2 {
		return 0
	}
	ratingScore, distanceScore, cityRatio := pathBase(path, targetCity)

	var totalCrowd float64
	for _, attr := range path {
		if attr == nil {
			continue
		}
		totalCrowd += e.crowdScore(ctx, attr.Name, forecast)
	}
	crowdScore := totalCrowd / float64(len(path))

	return ratingScore*0.3 + distanceScore*0.3 + cityRatio*0.2 + crowdScore*0.2
}

// crowdScore maps a visitor prediction onto [0,1]: below 5000 visitors is
// comfortable, below 10000 acceptable, anything above crowded.
func (e *Evaluator) crowdScore(ctx context.Context, name string, forecast *types.WeatherDayForecast) float64 {
	if e.traffic == nil {
		return neutralCrowdScore
	}
	visitors, err := e.traffic.PredictVisitors(ctx, name, forecast, false)
	if err != nil || visitors <= 0 {
		if err != nil {
			e.logger.DebugContext(ctx, "visitor prediction failed, using neutral crowd score",
				slog.String("attraction", name), slog.Any("error", err))
		}
		return neutralCrowdScore
	}
	switch {
	case visitors < 5000:
		return 1.0
	case visitors < 10000:
		return 0.5
	default:
		return 0.1
	}
}
