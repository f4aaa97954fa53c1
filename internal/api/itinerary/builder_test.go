package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/api/catalog"
	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

func TestBuilder_EmptyPath(t *testing.T) {
	b := NewBuilder(testLogger())

	plans := b.Build(nil, 3, true)
	require.Len(t, plans, 1)
	assert.Equal(t, 1, plans[0].Day)
	assert.Empty(t, plans[0].Stops)
}

func TestBuilder_ClosedLoopReturnsToStart(t *testing.T) {
	b := NewBuilder(testLogger())
	pool := testPool(5)

	plans := b.Build(pool, 3, true)
	require.Len(t, plans, 3)

	first := plans[0].Stops[0].Attraction
	lastDay := plans[len(plans)-1]
	last := lastDay.Stops[len(lastDay.Stops)-1].Attraction
	assert.Same(t, first, last)

	// Day numbers are 1-based and contiguous.
	for i, p := range plans {
		assert.Equal(t, i+1, p.Day)
	}
}

func TestBuilder_CrossCityDropsCityCenter(t *testing.T) {
	b := NewBuilder(testLogger())
	center := catalog.CityCenterAttraction("大连")
	pool := testPool(4)
	path := append([]*types.Attraction{center}, pool...)

	plans := b.Build(path, 2, false)
	require.Len(t, plans, 2)
	for _, p := range plans {
		for _, s := range p.Stops {
			assert.False(t, s.Attraction.IsCityCenter())
		}
	}
}

func TestBuilder_PadsShortPathCyclically(t *testing.T) {
	b := NewBuilder(testLogger())
	pool := testPool(1)

	plans := b.Build(pool, 3, false)
	require.Len(t, plans, 3)
	for _, p := range plans {
		require.Len(t, p.Stops, 1)
		assert.Same(t, pool[0], p.Stops[0].Attraction)
	}
}

func TestBuilder_RemainderOnLastDay(t *testing.T) {
	b := NewBuilder(testLogger())
	pool := testPool(7)

	plans := b.Build(pool, 3, false)
	require.Len(t, plans, 3)
	assert.Len(t, plans[0].Stops, 2)
	assert.Len(t, plans[1].Stops, 2)
	assert.Len(t, plans[2].Stops, 3)
}

func TestBuilder_VisitTimesAndTravelInfo(t *testing.T) {
	b := NewBuilder(testLogger())
	pool := testPool(3)

	plans := b.Build(pool, 1, false)
	require.Len(t, plans, 1)
	stops := plans[0].Stops
	require.Len(t, stops, 3)

	assert.Equal(t, "09:00", stops[0].VisitTime)
	assert.Equal(t, "11:00", stops[1].VisitTime)
	assert.Equal(t, "13:00", stops[2].VisitTime)

	assert.Nil(t, stops[0].TravelInfo)
	require.NotNil(t, stops[1].TravelInfo)
	assert.NotEmpty(t, stops[1].TravelInfo.Transportation)
	assert.NotEmpty(t, stops[1].TravelInfo.Distance)
}

func TestBuilder_DoesNotMutateInput(t *testing.T) {
	b := NewBuilder(testLogger())
	pool := testPool(2)
	path := []*types.Attraction{pool[0], pool[1]}

	b.Build(path, 4, true)
	assert.Len(t, path, 2)
}
