package catalog

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func ptr(v float64) *float64 { return &v }

var attractionCols = []string{"id", "name", "city", "type", "description", "duration", "rating", "price", "latitude", "longitude"}

func TestPostgresRepository_FindByCityAndFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id1, id2 := uuid.New(), uuid.New()
	rows := pgxmock.NewRows(attractionCols).
		AddRow(id1, "辽宁省博物馆", "沈阳", "博物馆", "馆藏丰富", "3小时", ptr(4.8), ptr(50.0), ptr(41.72), ptr(123.45)).
		AddRow(id2, "北陵公园", "沈阳", "公园", "清昭陵所在", "2小时", ptr(4.6), ptr(6.0), ptr(41.85), ptr(123.43))

	mock.ExpectQuery(`SELECT (.+) FROM attractions`).
		WithArgs("沈阳", 4.0).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock, testLogger())
	// The "市" suffix must be stripped before it reaches SQL.
	got, err := repo.FindByCityAndFilters(context.Background(), "沈阳市", 4.0, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "辽宁省博物馆", got[0].Name)
	assert.Equal(t, id2, got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindByNameAndCity_FuzzyFallback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM attractions WHERE name = \$1`).
		WithArgs("故宫", "沈阳").
		WillReturnRows(pgxmock.NewRows(attractionCols))

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM attractions WHERE name LIKE`).
		WithArgs("故宫", "沈阳").
		WillReturnRows(pgxmock.NewRows(attractionCols).
			AddRow(id, "沈阳故宫", "沈阳", "历史古迹", "", "2小时", ptr(4.9), ptr(60.0), ptr(41.79), ptr(123.45)))

	repo := NewPostgresRepository(mock, testLogger())
	got, err := repo.FindByNameAndCity(context.Background(), "故宫", "沈阳")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "沈阳故宫", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_First_EmptyCatalog(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM attractions ORDER BY id LIMIT 1`).
		WillReturnRows(pgxmock.NewRows(attractionCols))

	repo := NewPostgresRepository(mock, testLogger())
	got, err := repo.First(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCityCenterAttraction(t *testing.T) {
	center := CityCenterAttraction("大连市")

	assert.True(t, center.IsCityCenter())
	assert.Equal(t, uuid.Nil, center.ID)
	assert.Equal(t, "大连中心", center.Name)
	assert.Equal(t, "大连", center.City)
	assert.Equal(t, types.CityCenterType, center.Type)
	assert.Nil(t, center.Rating)
	require.True(t, center.HasCoordinates())
	assert.InDelta(t, 38.9140, *center.Latitude, 1e-6)
}

func TestFilterByTypePreferences(t *testing.T) {
	museum := &types.Attraction{Name: "辽宁省博物馆", Type: "博物馆"}
	memorial := &types.Attraction{Name: "九一八历史博物馆", Type: "历史古迹"}
	park := &types.Attraction{Name: "北陵公园", Type: "公园"}
	mountain := &types.Attraction{Name: "千山", Type: "山地"}
	all := []*types.Attraction{museum, memorial, park, mountain}

	t.Run("no preferences returns input", func(t *testing.T) {
		assert.Equal(t, all, FilterByTypePreferences(all, nil))
	})

	t.Run("museum preference matches type and name", func(t *testing.T) {
		got := FilterByTypePreferences(all, []string{"博物馆"})
		assert.ElementsMatch(t, []*types.Attraction{museum, memorial}, got)
	})

	t.Run("nature preference matches mountain by name keyword", func(t *testing.T) {
		got := FilterByTypePreferences(all, []string{"自然景观"})
		assert.Contains(t, got, mountain)
	})

	t.Run("unmatched preference yields empty", func(t *testing.T) {
		assert.Empty(t, FilterByTypePreferences(all, []string{"温泉"}))
	})
}
