package itinerary

import (
	"log/slog"
	"math/rand"

	"github.com/liaoning-tourism/go-trip-optimizer/internal/types"
)

// Params tunes the genetic optimizer. The defaults are empirically tuned
// rather than load-bearing; only the structure (elitism + order crossover +
// swap mutation over a fitness-weighted population) is fixed.
type Params struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	MaxPathLength  int
}

// DefaultParams mirrors the production tuning.
func DefaultParams() Params {
	return Params{
		PopulationSize: 20,
		Generations:    8,
		MutationRate:   0.1,
		MaxPathLength:  7,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.PopulationSize <= 0 {
		p.PopulationSize = d.PopulationSize
	}
	if p.Generations <= 0 {
		p.Generations = d.Generations
	}
	if p.MutationRate <= 0 {
		p.MutationRate = d.MutationRate
	}
	if p.MaxPathLength <= 0 {
		p.MaxPathLength = d.MaxPathLength
	}
	return p
}

// GeneticOptimizer evolves attraction orderings toward the highest simple
// fitness. The RNG is injected so tests can pin the whole run; production
// passes an unseeded source and is intentionally non-deterministic.
type GeneticOptimizer struct {
	params    Params
	evaluator *Evaluator
	rng       *rand.Rand
	logger    *slog.Logger
}

func NewGeneticOptimizer(params Params, evaluator *Evaluator, rng *rand.Rand, logger *slog.Logger) *GeneticOptimizer {
	return &GeneticOptimizer{
		params:    params.withDefaults(),
		evaluator: evaluator,
		rng:       rng,
		logger:    logger,
	}
}

// Optimize runs the fixed-generation loop over a pool of candidates and
// returns the best path found. An empty pool yields an empty path.
func (g *GeneticOptimizer) Optimize(pool []*types.Attraction, targetCity string) []*types.Attraction {
	population := g.seedPopulation(pool)
	if len(population) == 0 {
		return nil
	}

	for gen := 0; gen < g.params.Generations; gen++ {
		population = g.nextGeneration(population, targetCity)
	}

	best := population[0]
	bestScore := g.evaluator.Simple(best, targetCity)
	for _, path := range population[1:] {
		if score := g.evaluator.Simple(path, targetCity); score > bestScore {
			best, bestScore = path, score
		}
	}

	g.logger.Debug("genetic optimization finished",
		slog.Int("generations", g.params.Generations),
		slog.Int("best_path_len", len(best)),
		slog.Float64("best_fitness", bestScore))
	return best
}

// seedPopulation draws PopulationSize random paths. Path lengths are
// uniform in [1, min(MaxPathLength, len(pool))]; sampling is without
// replacement when the pool allows it, with replacement otherwise.
func (g *GeneticOptimizer) seedPopulation(pool []*types.Attraction) [][]*types.Attraction {
	if len(pool) == 0 {
		return nil
	}

	maxLen := g.params.MaxPathLength
	if len(pool) < maxLen {
		maxLen = len(pool)
	}

	population := make([][]*types.Attraction, 0, g.params.PopulationSize)
	for i := 0; i < g.params.PopulationSize; i++ {
		pathLen := 1 + g.rng.Intn(maxLen)

		var path []*types.Attraction
		if len(pool) >= pathLen {
			perm := g.rng.Perm(len(pool))
			path = make([]*types.Attraction, 0, pathLen)
			for _, idx := range perm[:pathLen] {
				path = append(path, pool[idx])
			}
		} else {
			path = make([]*types.Attraction, 0, pathLen)
			for j := 0; j < pathLen; j++ {
				path = append(path, pool[g.rng.Intn(len(pool))])
			}
		}
		population = append(population, path)
	}
	return population
}

func (g *GeneticOptimizer) nextGeneration(population [][]*types.Attraction, targetCity string) [][]*types.Attraction {
	size := len(population)

	scored := make([]scoredPath, 0, size)
	for _, path := range population {
		scored = append(scored, scoredPath{score: g.evaluator.Simple(path, targetCity), path: path})
	}
	sortByScoreDesc(scored)

	eliteSize := size / 10
	if eliteSize < 1 {
		eliteSize = 1
	}

	next := make([][]*types.Attraction, 0, size)
	for _, s := range scored[:eliteSize] {
		next = append(next, s.path)
	}

	for len(next) < size {
		parent1 := g.rouletteSelect(scored)
		parent2 := g.rouletteSelect(scored)

		child1, child2 := g.orderCrossover(parent1, parent2)
		g.swapMutate(child1)
		g.swapMutate(child2)

		next = append(next, child1)
		if len(next) < size {
			next = append(next, child2)
		}
	}
	return next
}

type scoredPath struct {
	score float64
	path  []*types.Attraction
}

// sortByScoreDesc is a stable insertion sort; populations are small and
// stability keeps tie-breaks deterministic under a fixed seed.
func sortByScoreDesc(scored []scoredPath) {
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].score > scored[j-1].score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}
}

// rouletteSelect picks a parent with probability proportional to fitness,
// falling back to uniform choice when every score is zero.
func (g *GeneticOptimizer) rouletteSelect(scored []scoredPath) []*types.Attraction {
	var total float64
	for _, s := range scored {
		total += s.score
	}
	if total <= 0 {
		return scored[g.rng.Intn(len(scored))].path
	}

	target := g.rng.Float64() * total
	var cumulative float64
	for _, s := range scored {
		cumulative += s.score
		if cumulative >= target {
			return s.path
		}
	}
	return scored[len(scored)-1].path
}

// orderCrossover applies OX: the middle segment of each parent is kept in
// place and the remaining positions fill from the other parent in order,
// skipping genes already present and wrapping past the end. Parents shorter
// than three genes come back as plain copies.
func (g *GeneticOptimizer) orderCrossover(parent1, parent2 []*types.Attraction) ([]*types.Attraction, []*types.Attraction) {
	if len(parent1) < 3 || len(parent2) < 3 {
		return clonePath(parent1), clonePath(parent2)
	}

	n := len(parent1)
	if len(parent2) < n {
		n = len(parent2)
	}
	start := 1 + g.rng.Intn(n-2)
	end := start + 1 + g.rng.Intn(n-start-1)

	child1 := fillFromOther(parent1, parent2, start, end)
	child2 := fillFromOther(parent2, parent1, start, end)
	return child1, child2
}

func fillFromOther(keeper, donor []*types.Attraction, start, end int) []*types.Attraction {
	child := make([]*types.Attraction, len(keeper))
	present := make(map[*types.Attraction]bool, end-start)
	for i := start; i < end; i++ {
		child[i] = keeper[i]
		present[keeper[i]] = true
	}

	open := len(child) - (end - start)
	pos := end
	for _, gene := range donor {
		if open == 0 {
			break
		}
		if present[gene] {
			continue
		}
		if pos >= len(child) {
			pos = 0
		}
		// Skip over the preserved middle segment.
		for child[pos] != nil {
			pos++
			if pos >= len(child) {
				pos = 0
			}
		}
		child[pos] = gene
		present[gene] = true
		pos++
		open--
	}

	// Duplicate genes in the donor leave holes; compact them away.
	compact := child[:0]
	for _, gene := range child {
		if gene != nil {
			compact = append(compact, gene)
		}
	}
	return compact
}

// swapMutate exchanges two random positions with probability MutationRate.
func (g *GeneticOptimizer) swapMutate(path []*types.Attraction) {
	if len(path) < 2 {
		return
	}
	if g.rng.Float64() >= g.params.MutationRate {
		return
	}
	i := g.rng.Intn(len(path))
	j := g.rng.Intn(len(path) - 1)
	if j >= i {
		j++
	}
	path[i], path[j] = path[j], path[i]
}

func clonePath(path []*types.Attraction) []*types.Attraction {
	clone := make([]*types.Attraction, len(path))
	copy(clone, path)
	return clone
}
