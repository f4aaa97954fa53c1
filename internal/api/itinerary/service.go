package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/liaoning-tourism/go-trip-optimizer/app/observability/metrics"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/catalog"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/weather"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// ErrInvalidDays rejects requests whose day count is not positive.
var ErrInvalidDays = errors.New("trip duration must be at least one day")

// maxCandidatePool caps the GA input; larger catalogs are truncated after
// rating-ordered retrieval.
const maxCandidatePool = 50

var _ Service = (*ServiceImpl)(nil)

// Service generates optimized trip plans.
type Service interface {
	GenerateTripPlan(ctx context.Context, req types.TripPlanRequest) (*types.TripPlan, error)
}

// ServiceImpl runs the full pipeline: candidate retrieval, genetic path
// optimization, day slotting, weather adjustment and budget estimation.
type ServiceImpl struct {
	logger   *slog.Logger
	catalog  catalog.Repository
	forecast weather.ForecastSource
	eval     *Evaluator
	builder  *Builder
	adjuster *WeatherAdjuster
	budget   *BudgetEstimator
	params   Params
	rng      *rand.Rand
	metrics  *metrics.AppMetrics
}

// NewServiceImpl assembles the optimizer pipeline. forecast may be nil to
// disable weather adjustment; appMetrics may be nil when observability is
// not initialized (tests). A nil rng falls back to a time-seeded source.
func NewServiceImpl(
	repo catalog.Repository,
	forecast weather.ForecastSource,
	eval *Evaluator,
	builder *Builder,
	adjuster *WeatherAdjuster,
	budget *BudgetEstimator,
	params Params,
	rng *rand.Rand,
	appMetrics *metrics.AppMetrics,
	logger *slog.Logger,
) *ServiceImpl {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ServiceImpl{
		logger:   logger,
		catalog:  repo,
		forecast: forecast,
		eval:     eval,
		builder:  builder,
		adjuster: adjuster,
		budget:   budget,
		params:   params.withDefaults(),
		rng:      rng,
		metrics:  appMetrics,
	}
}

// GenerateTripPlan produces a day-by-day itinerary with budget for the
// request. Same-city trips come back as closed loops; cross-city trips
// start from the start city's center and end with a return stop.
func (s *ServiceImpl) GenerateTripPlan(ctx context.Context, req types.TripPlanRequest) (*types.TripPlan, error) {
	start := time.Now()
	ctx, span := otel.Tracer("PathOptimizationService").Start(ctx, "GenerateTripPlan", trace.WithAttributes(
		attribute.String("trip.start_city", req.StartCity),
		attribute.String("trip.target_city", req.TargetCity),
		attribute.Int("trip.days", req.Days),
	))
	defer span.End()

	plan, err := s.generate(ctx, req)
	s.record(ctx, time.Since(start), plan, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("trip.itinerary_days", len(plan.Itinerary)))
	return plan, nil
}

func (s *ServiceImpl) generate(ctx context.Context, req types.TripPlanRequest) (*types.TripPlan, error) {
	if req.Days <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, req.Days)
	}

	startCity := geo.NormalizeCity(req.StartCity)
	targetCity := geo.NormalizeCity(req.TargetCity)
	if targetCity == "" {
		targetCity = startCity
	}
	closedLoop := startCity == targetCity

	userSelected := len(req.SelectedAttractions) > 0
	pool, err := s.candidatePool(ctx, req, targetCity)
	if err != nil {
		return nil, err
	}
	pool = dedupeAttractions(pool)

	if len(pool) == 0 {
		s.logger.InfoContext(ctx, "no attractions matched, returning empty itinerary",
			slog.String("target_city", targetCity))
		return &types.TripPlan{
			Itinerary:  []types.DayPlan{{Day: 1, Stops: []types.StopEntry{}}},
			Budget:     types.Budget{},
			StartCity:  startCity,
			TargetCity: targetCity,
		}, nil
	}

	if userSelected {
		pool = s.expandSelected(pool, req.Days)
	} else if len(pool) > maxCandidatePool {
		pool = pool[:maxCandidatePool]
	}

	optimizer := NewGeneticOptimizer(s.params, s.eval, s.rng, s.logger)
	best := optimizer.Optimize(pool, targetCity)
	if len(best) == 0 {
		best = s.randomPath(pool)
	}

	final := best
	if !closedLoop {
		final = append([]*types.Attraction{catalog.CityCenterAttraction(startCity)}, best...)
	}
	if len(final) < 2 && len(pool) > 0 {
		final = append(final, pool[s.rng.Intn(len(pool))])
	}

	plans := s.builder.Build(final, req.Days, closedLoop)
	if !userSelected {
		plans = s.applyWeather(ctx, plans, targetCity, startCity, req.Days)
	}

	budget := s.budget.Estimate(ctx, startCity, targetCity, req.Days, req.Preferences)

	s.logger.InfoContext(ctx, "trip plan generated",
		slog.String("start_city", startCity),
		slog.String("target_city", targetCity),
		slog.Int("days", req.Days),
		slog.Int("candidates", len(pool)),
		slog.Float64("total_cost", budget.TotalCost))

	return &types.TripPlan{
		Itinerary:  plans,
		Budget:     budget,
		StartCity:  startCity,
		TargetCity: targetCity,
	}, nil
}

// candidatePool resolves user-picked attractions when given, otherwise
// filters the target city's catalog by the request preferences. Picks that
// resolve to nothing are skipped, not fatal.
func (s *ServiceImpl) candidatePool(ctx context.Context, req types.TripPlanRequest, targetCity string) ([]*types.Attraction, error) {
	if len(req.SelectedAttractions) > 0 {
		pool := make([]*types.Attraction, 0, len(req.SelectedAttractions))
		for _, sel := range req.SelectedAttractions {
			city := sel.City
			if city == "" {
				city = targetCity
			}
			attr, err := s.catalog.FindByNameAndCity(ctx, sel.Name, city)
			if err != nil {
				return nil, fmt.Errorf("resolving selected attraction %q: %w", sel.Name, err)
			}
			if attr == nil {
				s.logger.WarnContext(ctx, "selected attraction not found, skipping",
					slog.String("name", sel.Name), slog.String("city", city))
				continue
			}
			pool = append(pool, attr)
		}
		return pool, nil
	}

	pool, err := s.catalog.FindByCityAndFilters(ctx, targetCity, req.Preferences.MinRating, req.Preferences.AttractionTypes)
	if err != nil {
		return nil, fmt.Errorf("loading attractions for %s: %w", targetCity, err)
	}
	return pool, nil
}

// expandSelected repeats user picks until the pool can fill every day and
// carry a two-stop path, capped at twice the day count.
func (s *ServiceImpl) expandSelected(pool []*types.Attraction, days int) []*types.Attraction {
	need := days
	if need < 2 {
		need = 2
	}
	base := len(pool)
	for i := 0; len(pool) < need; i++ {
		pool = append(pool, pool[i%base])
	}
	limit := days * 2
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

// randomPath is the fallback when optimization yields nothing: 3 to 7
// distinct stops, bounded by the pool.
func (s *ServiceImpl) randomPath(pool []*types.Attraction) []*types.Attraction {
	maxLen := 7
	if len(pool) < maxLen {
		maxLen = len(pool)
	}
	minLen := 3
	if maxLen < minLen {
		minLen = maxLen
	}
	length := minLen
	if maxLen > minLen {
		length = minLen + s.rng.Intn(maxLen-minLen+1)
	}

	perm := s.rng.Perm(len(pool))
	path := make([]*types.Attraction, 0, length)
	for _, idx := range perm[:length] {
		path = append(path, pool[idx])
	}
	return path
}

// applyWeather fetches the forecast and runs the adjuster. A missing source
// or failed fetch leaves the itinerary as built.
func (s *ServiceImpl) applyWeather(ctx context.Context, plans []types.DayPlan, targetCity, startCity string, days int) []types.DayPlan {
	if s.forecast == nil || s.adjuster == nil {
		return plans
	}
	forecasts, err := s.forecast.Forecast(ctx, targetCity, days)
	if err != nil {
		s.logger.WarnContext(ctx, "forecast unavailable, skipping weather adjustment",
			slog.String("city", targetCity), slog.Any("error", err))
		return plans
	}
	return s.adjuster.Adjust(ctx, plans, forecasts, targetCity, startCity)
}

func (s *ServiceImpl) record(ctx context.Context, elapsed time.Duration, plan *types.TripPlan, err error) {
	if s.metrics == nil {
		return
	}
	if err != nil {
		if s.metrics.TripPlanErrorsTotal != nil {
			s.metrics.TripPlanErrorsTotal.Add(ctx, 1)
		}
		return
	}
	if s.metrics.TripPlansTotal != nil {
		s.metrics.TripPlansTotal.Add(ctx, 1)
	}
	if s.metrics.TripPlanDurationSeconds != nil {
		s.metrics.TripPlanDurationSeconds.Record(ctx, elapsed.Seconds())
	}
	if s.metrics.WeatherAdjustedDaysTotal != nil && plan != nil {
		var adjusted int64
		for _, day := range plan.Itinerary {
			if day.Adjusted {
				adjusted++
			}
		}
		if adjusted > 0 {
			s.metrics.WeatherAdjustedDaysTotal.Add(ctx, adjusted)
		}
	}
}

// dedupeAttractions drops duplicate city+name entries, keeping first
// occurrence order.
func dedupeAttractions(pool []*types.Attraction) []*types.Attraction {
	seen := make(map[string]bool, len(pool))
	out := pool[:0]
	for _, attr := range pool {
		if attr == nil {
			continue
		}
		key := attractionKey(attr)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, attr)
	}
	return out
}
