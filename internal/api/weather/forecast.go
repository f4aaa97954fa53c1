package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// ForecastSource supplies an ordered multi-day forecast for a city, one
// entry per itinerary day.
type ForecastSource interface {
	Forecast(ctx context.Context, city string, days int) ([]types.WeatherDayForecast, error)
}

var _ ForecastSource = (*SyntheticSource)(nil)

// SyntheticSource produces deterministic placeholder forecasts by rotating
// through common Liaoning weather patterns. It stands in where no live
// weather API is wired up, and backs the demo binary and tests.
type SyntheticSource struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewSyntheticSource returns a forecast source with the real clock.
func NewSyntheticSource(logger *slog.Logger) *SyntheticSource {
	return &SyntheticSource{logger: logger, now: time.Now}
}

var syntheticWeatherTypes = []string{"晴", "多云", "阴", "小雨", "中雨", "晴间多云", "多云转晴"}

// Forecast generates days entries starting today. Temperatures drift up half
// a degree per day so consecutive days stay distinguishable.
func (s *SyntheticSource) Forecast(ctx context.Context, city string, days int) ([]types.WeatherDayForecast, error) {
	if days <= 0 {
		return nil, fmt.Errorf("forecast days must be positive, got %d", days)
	}

	today := s.now()
	forecast := make([]types.WeatherDayForecast, 0, days)
	for i := 0; i < days; i++ {
		avg := 15 + float64(i)*0.5
		entry := types.WeatherDayForecast{
			Date:        today.AddDate(0, 0, i).Format("2006-01-02"),
			Weather:     syntheticWeatherTypes[i%len(syntheticWeatherTypes)],
			Temperature: fmt.Sprintf("%d°C - %d°C", int(avg-5), int(avg+5)),
			TempMin:     avg - 5,
			TempMax:     avg + 5,
			TempAvg:     avg,
			WindLevel:   2 + i%3,
		}
		forecast = append(forecast, entry)
	}

	s.logger.DebugContext(ctx, "generated synthetic forecast",
		slog.String("city", city), slog.Int("days", days))
	return forecast, nil
}
