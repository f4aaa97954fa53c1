// Package traffic estimates expected visitor counts per attraction. The
// production system feeds the optimizer from a trained prediction model;
// this package carries the model's fallback heuristic so the full fitness
// evaluator has a working collaborator out of the box.
package traffic

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// Estimator predicts the expected visitor count for an attraction on a
// given day. A nil forecast means average conditions.
type Estimator interface {
	PredictVisitors(ctx context.Context, attractionName string, forecast *types.WeatherDayForecast, isHoliday bool) (float64, error)
}

var _ Estimator = (*BaselineEstimator)(nil)

// BaselineEstimator derives a deterministic base load from the attraction
// name and adjusts it for weekends, holidays and bad weather.
type BaselineEstimator struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewBaselineEstimator(logger *slog.Logger) *BaselineEstimator {
	return &BaselineEstimator{logger: logger, now: time.Now}
}

const (
	minBaseVisitors  = 2000.0
	baseVisitorsSpan = 8000.0
	holidayFactor    = 1.3
	weekendFactor    = 1.2
	badWeatherFactor = 0.5
)

func (e *BaselineEstimator) PredictVisitors(ctx context.Context, attractionName string, forecast *types.WeatherDayForecast, isHoliday bool) (float64, error) {
	h := fnv.New32a()
	h.Write([]byte(attractionName))
	visitors := minBaseVisitors + float64(h.Sum32()%uint32(baseVisitorsSpan))

	switch {
	case isHoliday:
		visitors *= holidayFactor
	case e.isWeekend():
		visitors *= weekendFactor
	}

	if forecast != nil && isBadWeather(forecast.Weather) {
		visitors *= badWeatherFactor
	}

	e.logger.DebugContext(ctx, "estimated visitor count",
		slog.String("attraction", attractionName),
		slog.Float64("visitors", visitors))
	return visitors, nil
}

func (e *BaselineEstimator) isWeekend() bool {
	wd := e.now().Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func isBadWeather(desc string) bool {
	for _, kw := range []string{"雨", "雪", "雾", "雷"} {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
