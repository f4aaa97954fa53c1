package itinerary

import (
	"fmt"
	"log/slog"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// visitStartHour and visitSlotHours fix the display schedule: stops sit at
// two-hour offsets from 09:00 within each day.
const (
	visitStartHour = 9
	visitSlotHours = 2
)

// Builder slices an optimized path into per-day plans.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build distributes the path over the requested number of days. For a
// same-city round trip (closedLoop) the first stop is re-appended at the
// end, so the itinerary returns to where it started. For a cross-city trip
// a leading city-center placeholder is dropped from the display schedule.
// Paths shorter than the day count are padded cyclically so every day has
// at least one stop; an empty path collapses to a single empty day.
func (b *Builder) Build(path []*types.Attraction, days int, closedLoop bool) []types.DayPlan {
	if days < 1 {
		days = 1
	}

	stops := clonePath(path)
	if !closedLoop && len(stops) > 0 && stops[0].IsCityCenter() {
		stops = stops[1:]
	}
	if len(stops) == 0 {
		return []types.DayPlan{{Day: 1, Stops: []types.StopEntry{}}}
	}

	base := len(stops)
	for i := 0; len(stops) < days; i++ {
		stops = append(stops, stops[i%base])
	}
	if closedLoop && stops[len(stops)-1] != stops[0] {
		stops = append(stops, stops[0])
	}

	perDay := len(stops) / days
	if perDay < 1 {
		perDay = 1
	}

	plans := make([]types.DayPlan, 0, days)
	for day := 0; day < days; day++ {
		start := day * perDay
		end := start + perDay
		if day == days-1 {
			end = len(stops)
		}
		plans = append(plans, types.DayPlan{
			Day:   day + 1,
			Stops: buildStops(stops[start:end]),
		})
	}

	b.logger.Debug("itinerary assembled",
		slog.Int("days", days), slog.Int("stops", len(stops)), slog.Bool("closed_loop", closedLoop))
	return plans
}

// buildStops attaches visit times and intra-day travel legs. The first stop
// of a day carries no travel info.
func buildStops(attrs []*types.Attraction) []types.StopEntry {
	entries := make([]types.StopEntry, 0, len(attrs))
	for i, attr := range attrs {
		entry := types.StopEntry{
			Attraction: attr,
			VisitTime:  visitTime(i),
		}
		if i > 0 {
			travel := geo.TravelInfoBetween(attrs[i-1], attr)
			entry.TravelInfo = &travel
		}
		entries = append(entries, entry)
	}
	return entries
}

func visitTime(slot int) string {
	return fmt.Sprintf("%02d:00", visitStartHour+slot*visitSlotHours)
}
