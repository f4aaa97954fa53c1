package itinerary

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

func testPool(n int) []*types.Attraction {
	pool := make([]*types.Attraction, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, attraction(
			fmt.Sprintf("景点%d", i), "沈阳",
			3.5+float64(i%3)*0.5,
			41.7+float64(i)*0.01, 123.4+float64(i)*0.01,
		))
	}
	return pool
}

func newOptimizer(seed int64) *GeneticOptimizer {
	evaluator := NewEvaluator(nil, testLogger())
	return NewGeneticOptimizer(DefaultParams(), evaluator, rand.New(rand.NewSource(seed)), testLogger())
}

func pathNames(path []*types.Attraction) []string {
	names := make([]string, 0, len(path))
	for _, a := range path {
		names = append(names, a.Name)
	}
	return names
}

func TestGeneticOptimizer_EmptyPool(t *testing.T) {
	g := newOptimizer(1)
	assert.Nil(t, g.Optimize(nil, "沈阳"))
	assert.Nil(t, g.Optimize([]*types.Attraction{}, "沈阳"))
}

func TestGeneticOptimizer_DeterministicUnderFixedSeed(t *testing.T) {
	pool := testPool(12)

	first := newOptimizer(42).Optimize(pool, "沈阳")
	second := newOptimizer(42).Optimize(pool, "沈阳")

	assert.Equal(t, pathNames(first), pathNames(second))
}

func TestGeneticOptimizer_PathDrawnFromPool(t *testing.T) {
	pool := testPool(12)
	g := newOptimizer(7)

	best := g.Optimize(pool, "沈阳")
	require.NotEmpty(t, best)
	assert.LessOrEqual(t, len(best), g.params.MaxPathLength)

	inPool := make(map[*types.Attraction]bool, len(pool))
	for _, a := range pool {
		inPool[a] = true
	}
	seen := make(map[*types.Attraction]bool, len(best))
	for _, a := range best {
		assert.True(t, inPool[a], "stop %s not drawn from the pool", a.Name)
		assert.False(t, seen[a], "stop %s scheduled twice", a.Name)
		seen[a] = true
	}
}

func TestGeneticOptimizer_SinglePoolEntry(t *testing.T) {
	pool := testPool(1)
	best := newOptimizer(3).Optimize(pool, "沈阳")

	require.Len(t, best, 1)
	assert.Same(t, pool[0], best[0])
}

func TestOrderCrossover_PreservesGeneSet(t *testing.T) {
	pool := testPool(6)
	g := newOptimizer(11)

	parent1 := []*types.Attraction{pool[0], pool[1], pool[2], pool[3], pool[4], pool[5]}
	parent2 := []*types.Attraction{pool[5], pool[3], pool[1], pool[0], pool[4], pool[2]}

	for i := 0; i < 50; i++ {
		child1, child2 := g.orderCrossover(parent1, parent2)
		assert.ElementsMatch(t, parent1, child1)
		assert.ElementsMatch(t, parent2, child2)
	}
}

func TestOrderCrossover_ShortParentsCopied(t *testing.T) {
	pool := testPool(4)
	g := newOptimizer(5)

	parent1 := []*types.Attraction{pool[0], pool[1]}
	parent2 := []*types.Attraction{pool[2], pool[3], pool[1], pool[0]}

	child1, child2 := g.orderCrossover(parent1, parent2)
	assert.Equal(t, parent1, child1)
	assert.Equal(t, parent2, child2)

	// Copies, not aliases: mutating a child must not touch its parent.
	child2[0], child2[1] = child2[1], child2[0]
	assert.Same(t, pool[2], parent2[0])
}

func TestOrderCrossover_UnevenParentLengths(t *testing.T) {
	pool := testPool(7)
	g := newOptimizer(9)

	parent1 := []*types.Attraction{pool[0], pool[1], pool[2], pool[3], pool[4], pool[5], pool[6]}
	parent2 := []*types.Attraction{pool[2], pool[0], pool[5]}

	for i := 0; i < 50; i++ {
		child1, child2 := g.orderCrossover(parent1, parent2)

		// Each child keeps its own length bound and never repeats a gene.
		assert.LessOrEqual(t, len(child1), len(parent1))
		assert.LessOrEqual(t, len(child2), len(parent2))
		assertNoDuplicates(t, child1)
		assertNoDuplicates(t, child2)
	}
}

func assertNoDuplicates(t *testing.T, path []*types.Attraction) {
	t.Helper()
	seen := make(map[*types.Attraction]bool, len(path))
	for _, a := range path {
		require.NotNil(t, a)
		assert.False(t, seen[a], "duplicate gene %s", a.Name)
		seen[a] = true
	}
}

func TestSwapMutate_PreservesGeneSet(t *testing.T) {
	pool := testPool(5)
	g := NewGeneticOptimizer(
		Params{PopulationSize: 20, Generations: 8, MutationRate: 1.0, MaxPathLength: 7},
		NewEvaluator(nil, testLogger()),
		rand.New(rand.NewSource(13)),
		testLogger(),
	)

	path := []*types.Attraction{pool[0], pool[1], pool[2], pool[3], pool[4]}
	before := append([]*types.Attraction(nil), path...)

	g.swapMutate(path)
	assert.ElementsMatch(t, before, path)
	assert.NotEqual(t, before, path)
}

func TestRouletteSelect_UniformFallbackOnZeroScores(t *testing.T) {
	pool := testPool(3)
	g := newOptimizer(17)

	scored := []scoredPath{
		{score: 0, path: []*types.Attraction{pool[0]}},
		{score: 0, path: []*types.Attraction{pool[1]}},
		{score: 0, path: []*types.Attraction{pool[2]}},
	}

	picked := make(map[*types.Attraction]bool)
	for i := 0; i < 200; i++ {
		picked[g.rouletteSelect(scored)[0]] = true
	}
	assert.Len(t, picked, 3)
}
