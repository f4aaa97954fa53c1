// Package catalog supplies candidate attractions to the optimizer: a
// Postgres-backed repository, an in-memory variant and a caching decorator.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/geo"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the attraction lookup contract the optimizer consumes.
// City arguments are accepted with or without the "市" suffix.
type Repository interface {
	// FindByCityAndFilters returns the city's attractions with at least
	// minRating, narrowed by type preferences when any are given.
	FindByCityAndFilters(ctx context.Context, city string, minRating float64, attractionTypes []string) ([]*types.Attraction, error)
	// FindByCity returns up to limit attractions of a city (no limit when
	// limit <= 0).
	FindByCity(ctx context.Context, city string, limit int) ([]*types.Attraction, error)
	// FindByNameAndCity resolves one attraction by exact name, falling back
	// to a substring match. Returns nil when nothing matches.
	FindByNameAndCity(ctx context.Context, name, city string) (*types.Attraction, error)
	// First returns any attraction, or nil on an empty catalog.
	First(ctx context.Context) (*types.Attraction, error)
}

// CityCenterAttraction builds the synthetic placeholder standing in for a
// city's geographic centroid when a trip starts outside the target city.
// It carries the sentinel uuid.Nil id and is never persisted.
func CityCenterAttraction(city string) *types.Attraction {
	city = geo.NormalizeCity(city)
	lat, lon, _ := geo.CityCenter(city)
	price := 0.0
	return &types.Attraction{
		ID:          uuid.Nil,
		Name:        city + "中心",
		City:        city,
		Type:        types.CityCenterType,
		Description: city + "的中心点",
		Duration:    "0小时",
		Price:       &price,
		Latitude:    &lat,
		Longitude:   &lon,
	}
}

// PgxPool is the slice of pgxpool.Pool the repository needs; pgxmock's pool
// satisfies it too, which keeps the repository testable without a database.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

type PostgresRepository struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresRepository(pgpool PgxPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

const attractionColumns = `id, name, city, type, description, duration, rating, price, latitude, longitude`

func scanAttractions(rows pgx.Rows) ([]*types.Attraction, error) {
	var attractions []*types.Attraction
	for rows.Next() {
		var a types.Attraction
		if err := rows.Scan(
			&a.ID, &a.Name, &a.City, &a.Type, &a.Description, &a.Duration,
			&a.Rating, &a.Price, &a.Latitude, &a.Longitude,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attraction row: %w", err)
		}
		attractions = append(attractions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attraction rows iteration failed: %w", err)
	}
	return attractions, nil
}

func (r *PostgresRepository) FindByCityAndFilters(ctx context.Context, city string, minRating float64, attractionTypes []string) ([]*types.Attraction, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM attractions
        WHERE city = $1 AND (rating IS NULL OR rating >= $2)
        ORDER BY rating DESC NULLS LAST
    `, attractionColumns)

	rows, err := r.pgpool.Query(ctx, query, geo.NormalizeCity(city), minRating)
	if err != nil {
		return nil, fmt.Errorf("failed to query attractions by city: %w", err)
	}
	defer rows.Close()

	attractions, err := scanAttractions(rows)
	if err != nil {
		return nil, err
	}

	// Type preference matching runs over type, name and description with
	// keyword expansion, so it stays in Go rather than SQL.
	return FilterByTypePreferences(attractions, attractionTypes), nil
}

func (r *PostgresRepository) FindByCity(ctx context.Context, city string, limit int) ([]*types.Attraction, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM attractions
        WHERE city = $1
        ORDER BY rating DESC NULLS LAST
    `, attractionColumns)
	args := []any{geo.NormalizeCity(city)}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attractions by city: %w", err)
	}
	defer rows.Close()

	return scanAttractions(rows)
}

func (r *PostgresRepository) FindByNameAndCity(ctx context.Context, name, city string) (*types.Attraction, error) {
	city = geo.NormalizeCity(city)

	exact := fmt.Sprintf(`SELECT %s FROM attractions WHERE name = $1 AND city = $2`, attractionColumns)
	attr, err := r.queryOne(ctx, exact, name, city)
	if err != nil {
		return nil, err
	}
	if attr != nil {
		return attr, nil
	}

	// Exact match failed, fall back to a substring match like the planner's
	// fuzzy resolution of user-picked attractions.
	fuzzy := fmt.Sprintf(`SELECT %s FROM attractions WHERE name LIKE '%%' || $1 || '%%' AND city = $2 LIMIT 1`, attractionColumns)
	return r.queryOne(ctx, fuzzy, name, city)
}

func (r *PostgresRepository) First(ctx context.Context) (*types.Attraction, error) {
	query := fmt.Sprintf(`SELECT %s FROM attractions ORDER BY id LIMIT 1`, attractionColumns)
	return r.queryOne(ctx, query)
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*types.Attraction, error) {
	var a types.Attraction
	err := r.pgpool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Name, &a.City, &a.Type, &a.Description, &a.Duration,
		&a.Rating, &a.Price, &a.Latitude, &a.Longitude,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query attraction: %w", err)
	}
	return &a, nil
}
