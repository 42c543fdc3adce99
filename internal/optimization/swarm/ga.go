package swarm

import (
	"math"
	"sort"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// GAConfig holds the genetic algorithm hyperparameters.
type GAConfig struct {
	// CrossoverRate is the probability that a child is produced by blend
	// crossover rather than cloning its first parent.
	CrossoverRate float64
	// MutationRate is the per-gene probability of a bounded perturbation.
	MutationRate float64
	// ElitismCount is how many of the fittest individuals are copied
	// unchanged into the next generation.
	ElitismCount int
	// TournamentSize is how many candidates compete per parent slot.
	TournamentSize int
	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64
}

// DefaultGAConfig returns the documented GA defaults.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		ElitismCount:   2,
		TournamentSize: 3,
	}
}

// mutationScale is the perturbation width as a fraction of a dimension's
// bound span.
const mutationScale = 0.1

// GA implements a real-valued genetic algorithm: tournament selection, blend
// crossover, bounded per-gene mutation, and elitism.
type GA struct {
	base
	cfg GAConfig
}

// NewGA creates a genetic algorithm engine.
func NewGA(cfg GAConfig) *GA {
	if cfg.TournamentSize < 1 {
		cfg.TournamentSize = 1
	}
	if cfg.ElitismCount < 0 {
		cfg.ElitismCount = 0
	}
	return &GA{base: newBase(cfg.Seed), cfg: cfg}
}

// Initialize allocates the population of chromosomes.
func (g *GA) Initialize(populationSize, dimension int, bounds []optimization.Bound) error {
	return g.init(populationSize, dimension, bounds)
}

// EvaluateFitness assigns fn to every chromosome.
func (g *GA) EvaluateFitness(fn optimization.FitnessFunc) error {
	if err := g.requireInit("EvaluateFitness"); err != nil {
		return err
	}
	g.evaluate(fn)
	return nil
}

// SelectLeaders promotes the fittest chromosome to best solution on strict
// improvement and records the convergence point.
func (g *GA) SelectLeaders() error {
	return g.selectGlobalBest("SelectLeaders")
}

// tournament returns the index of the fittest of TournamentSize random
// candidates.
func (g *GA) tournament() int {
	best := g.rng.Intn(g.populationSize)
	for k := 1; k < g.cfg.TournamentSize; k++ {
		c := g.rng.Intn(g.populationSize)
		if g.fitness[c] < g.fitness[best] {
			best = c
		}
	}
	return best
}

// crossover produces a child by per-gene blending of the two parents.
func (g *GA) crossover(p1, p2 []float64) []float64 {
	child := make([]float64, g.dimension)
	if g.rng.Float64() < g.cfg.CrossoverRate {
		for d := range child {
			alpha := g.rng.Float64()
			child[d] = alpha*p1[d] + (1-alpha)*p2[d]
		}
	} else {
		copy(child, p1)
	}
	return child
}

// mutate perturbs genes in place with per-gene probability MutationRate,
// scaled to the dimension's span.
func (g *GA) mutate(child []float64) {
	for d, bound := range g.bounds {
		if g.rng.Float64() < g.cfg.MutationRate {
			child[d] += (2*g.rng.Float64() - 1) * mutationScale * bound.Span()
		}
	}
}

// UpdatePositions breeds the next generation.
func (g *GA) UpdatePositions(fn optimization.FitnessFunc) error {
	if err := g.requireInit("UpdatePositions"); err != nil {
		return err
	}

	// The first generation assesses the initial population so selection
	// pressure is defined before any breeding happens.
	if !g.primed {
		g.evaluate(fn)
		if idx := g.bestAgent(); idx >= 0 {
			g.updateBest(g.positions[idx], g.fitness[idx])
		}
		g.primed = true
	}

	g.iteration++

	elites := g.cfg.ElitismCount
	if elites > g.populationSize {
		elites = g.populationSize
	}

	// Rank the current generation; ties keep the lower index so the
	// ordering is deterministic.
	order := make([]int, g.populationSize)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa, fb := g.fitness[order[a]], g.fitness[order[b]]
		if fa == fb || (math.IsNaN(fa) && math.IsNaN(fb)) {
			return order[a] < order[b]
		}
		return fa < fb
	})

	next := make([][]float64, g.populationSize)
	nextFit := make([]float64, g.populationSize)
	for i := 0; i < elites; i++ {
		next[i] = append([]float64(nil), g.positions[order[i]]...)
		nextFit[i] = g.fitness[order[i]]
	}
	for i := elites; i < g.populationSize; i++ {
		p1 := g.positions[g.tournament()]
		p2 := g.positions[g.tournament()]
		child := g.crossover(p1, p2)
		g.mutate(child)
		g.clamp(child)
		next[i] = child
		nextFit[i] = math.Inf(1)
	}

	g.positions = next
	g.fitness = nextFit

	g.evaluate(fn)
	return g.SelectLeaders()
}
