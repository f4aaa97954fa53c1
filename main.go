package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/liaoning-tourism/go-trip-optimizer/app/db"
	"github.com/liaoning-tourism/go-trip-optimizer/app/observability/metrics"
	"github.com/liaoning-tourism/go-trip-optimizer/app/tracer"
	"github.com/liaoning-tourism/go-trip-optimizer/config"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/catalog"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/itinerary"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/pricing"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/risk"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/traffic"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/weather"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

func main() {
	startCity := flag.String("start", "沈阳", "city the trip starts from")
	targetCity := flag.String("target", "", "city to tour (defaults to the start city)")
	days := flag.Int("days", 3, "trip length in days")
	minRating := flag.Float64("min-rating", 0, "minimum attraction rating")
	attractionTypes := flag.String("types", "", "comma-separated attraction type preferences")
	flag.Parse()

	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger)

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Catalog Setup ---
	repo, cleanup, err := setupCatalog(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to set up the attraction catalog", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	// --- Dependency Injection ---
	trafficEstimator := traffic.NewBaselineEstimator(logger)
	evaluator := itinerary.NewEvaluator(trafficEstimator, logger)
	builder := itinerary.NewBuilder(logger)
	adjuster := itinerary.NewWeatherAdjuster(repo, risk.NewRuleAssessor(logger), logger)
	budget := itinerary.NewBudgetEstimator(pricing.NewTableLookup(), logger)
	forecast := weather.NewSyntheticSource(logger)

	params := itinerary.Params{
		PopulationSize: cfg.Optimizer.PopulationSize,
		Generations:    cfg.Optimizer.Generations,
		MutationRate:   cfg.Optimizer.MutationRate,
		MaxPathLength:  cfg.Optimizer.MaxPathLength,
	}
	service := itinerary.NewServiceImpl(
		repo, forecast, evaluator, builder, adjuster, budget,
		params, rand.New(rand.NewSource(time.Now().UnixNano())),
		metrics.Get(), logger,
	)

	// --- Run Optimization ---
	req := types.TripPlanRequest{
		StartCity:  *startCity,
		TargetCity: *targetCity,
		Days:       *days,
		Preferences: types.TripPreferences{
			MinRating:       *minRating,
			AttractionTypes: splitTypes(*attractionTypes),
		},
	}

	plan, err := service.GenerateTripPlan(ctx, req)
	if err != nil {
		logger.Error("Trip plan generation failed", slog.Any("error", err))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		logger.Error("Failed to encode trip plan", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// setupCatalog prefers Postgres when it is configured and reachable and
// falls back to the bundled JSON attraction set otherwise. The returned
// cleanup closes whatever was opened.
func setupCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (catalog.Repository, func(), error) {
	if cfg.Repositories.Postgres.Host != "" {
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err == nil {
			if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
				logger.Warn("Database migrations failed, falling back to file catalog", slog.Any("error", err))
			} else if pool, err := database.Init(dbConfig.ConnectionURL, logger); err == nil {
				if database.WaitForDB(ctx, pool, logger) {
					repo := catalog.NewCachedRepository(
						catalog.NewPostgresRepository(pool, logger),
						cfg.Catalog.CacheTTL,
					)
					return repo, pool.Close, nil
				}
				pool.Close()
			}
		}
		logger.Warn("Postgres catalog unavailable, falling back to file catalog")
	}

	attractions, err := loadAttractions(cfg.Catalog.AttractionsDB)
	if err != nil {
		return nil, nil, fmt.Errorf("loading attraction file %s: %w", cfg.Catalog.AttractionsDB, err)
	}
	logger.Info("Loaded file-based attraction catalog",
		slog.String("path", cfg.Catalog.AttractionsDB), slog.Int("attractions", len(attractions)))
	return catalog.NewInMemoryRepository(attractions), func() {}, nil
}

func loadAttractions(path string) ([]*types.Attraction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var attractions []*types.Attraction
	if err := json.Unmarshal(raw, &attractions); err != nil {
		return nil, fmt.Errorf("parsing attractions: %w", err)
	}
	return attractions, nil
}

func splitTypes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" { // Default to development if not set
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug, // More verbose in dev
			TimeFormat: time.Kitchen,
			AddSource:  true, // Show file:line
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)") // Use standard log before slog default is set
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false, // Don't add source in prod unless needed for specific errors
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
