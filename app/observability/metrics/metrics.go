package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	TripPlansTotal           metric.Int64Counter
	TripPlanDurationSeconds  metric.Float64Histogram
	TripPlanErrorsTotal      metric.Int64Counter
	WeatherAdjustedDaysTotal metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripOptimizer")
		var err error
		m := &AppMetrics{}

		m.TripPlansTotal, err = meter.Int64Counter(
			"trip_plans_total",
			metric.WithDescription("Total number of trip plans generated"),
			metric.WithUnit("{plan}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_plans_total: %v", err)
		}

		m.TripPlanDurationSeconds, err = meter.Float64Histogram(
			"trip_plan_duration_seconds",
			metric.WithDescription("Duration of trip plan generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_plan_duration_seconds: %v", err)
		}

		m.TripPlanErrorsTotal, err = meter.Int64Counter(
			"trip_plan_errors_total",
			metric.WithDescription("Total number of failed trip plan requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_plan_errors_total: %v", err)
		}

		m.WeatherAdjustedDaysTotal, err = meter.Int64Counter(
			"weather_adjusted_days_total",
			metric.WithDescription("Total number of itinerary days changed by weather adjustment"),
			metric.WithUnit("{day}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create weather_adjusted_days_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		// This indicates a programming error - InitAppMetrics must be called at startup.
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
