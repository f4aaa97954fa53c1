package traffic

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

func newEstimator(t *testing.T, at time.Time) *BaselineEstimator {
	t.Helper()
	e := NewBaselineEstimator(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	e.now = func() time.Time { return at }
	return e
}

// A Wednesday, so no weekend adjustment interferes.
var midweek = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

func TestBaselineEstimator_Deterministic(t *testing.T) {
	e := newEstimator(t, midweek)
	ctx := context.Background()

	first, err := e.PredictVisitors(ctx, "沈阳故宫", nil, false)
	require.NoError(t, err)
	second, err := e.PredictVisitors(ctx, "沈阳故宫", nil, false)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, minBaseVisitors)
	assert.Less(t, first, minBaseVisitors+baseVisitorsSpan)
}

func TestBaselineEstimator_HolidayIncreases(t *testing.T) {
	e := newEstimator(t, midweek)
	ctx := context.Background()

	normal, err := e.PredictVisitors(ctx, "沈阳故宫", nil, false)
	require.NoError(t, err)
	holiday, err := e.PredictVisitors(ctx, "沈阳故宫", nil, true)
	require.NoError(t, err)

	assert.InDelta(t, normal*holidayFactor, holiday, 1e-9)
}

func TestBaselineEstimator_BadWeatherDampens(t *testing.T) {
	e := newEstimator(t, midweek)
	ctx := context.Background()

	normal, err := e.PredictVisitors(ctx, "千山", &types.WeatherDayForecast{Weather: "晴"}, false)
	require.NoError(t, err)
	rainy, err := e.PredictVisitors(ctx, "千山", &types.WeatherDayForecast{Weather: "中雨"}, false)
	require.NoError(t, err)

	assert.Less(t, rainy, normal)
	assert.InDelta(t, normal*badWeatherFactor, rainy, 1e-9)
}

func TestBaselineEstimator_Weekend(t *testing.T) {
	saturday := time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
	weekday := newEstimator(t, midweek)
	weekend := newEstimator(t, saturday)
	ctx := context.Background()

	base, err := weekday.PredictVisitors(ctx, "北陵公园", nil, false)
	require.NoError(t, err)
	boosted, err := weekend.PredictVisitors(ctx, "北陵公园", nil, false)
	require.NoError(t, err)

	assert.InDelta(t, base*weekendFactor, boosted, 1e-9)
}
