// Package swarm implements the HIVE population-based metaheuristic engines:
// particle swarm (PSO), grey wolf (GWO), whale (WOA), genetic algorithm (GA),
// ant colony (ACO), and differential evolution (DE). All six share one
// lifecycle contract and are constructed through New.
package swarm

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// base carries the state common to every engine: the population's positions
// and fitness values, the bounds, the seeded random source, the best-known
// solution, and the convergence history.
type base struct {
	populationSize int
	dimension      int
	bounds         []optimization.Bound

	positions [][]float64
	fitness   []float64

	rng         *rand.Rand
	evalWorkers int

	iteration   int
	best        optimization.Solution
	convergence []float64
	initialized bool
	primed      bool
}

// newBase seeds the random source. A zero seed falls back to the wall clock,
// matching the reproducibility contract: pass an explicit seed to make two
// runs identical.
func newBase(seed int64) base {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return base{
		rng:         rand.New(rand.NewSource(seed)),
		evalWorkers: 1,
		best:        optimization.Solution{Fitness: math.Inf(1)},
	}
}

// init validates the configuration and allocates a fresh population with
// positions sampled uniformly within bounds. All prior state is discarded.
func (b *base) init(populationSize, dimension int, bounds []optimization.Bound) error {
	if err := optimization.ValidateBounds(populationSize, dimension, bounds); err != nil {
		return err
	}

	b.populationSize = populationSize
	b.dimension = dimension
	b.bounds = append([]optimization.Bound(nil), bounds...)

	b.positions = make([][]float64, populationSize)
	b.fitness = make([]float64, populationSize)
	for i := range b.positions {
		b.positions[i] = b.samplePosition()
		b.fitness[i] = math.Inf(1)
	}

	b.iteration = 0
	b.best = optimization.Solution{Fitness: math.Inf(1)}
	b.convergence = nil
	b.initialized = true
	b.primed = false
	return nil
}

// requireInit guards lifecycle calls that need a valid population.
func (b *base) requireInit(op string) error {
	if !b.initialized {
		return optimization.NewInitializationError(op)
	}
	return nil
}

// samplePosition draws one position uniformly within bounds.
func (b *base) samplePosition() []float64 {
	pos := make([]float64, b.dimension)
	for d, bound := range b.bounds {
		pos[d] = bound.Min + b.rng.Float64()*bound.Span()
	}
	return pos
}

// clamp limits every coordinate of pos to its dimension's bound, in place.
func (b *base) clamp(pos []float64) {
	for d, bound := range b.bounds {
		pos[d] = bound.Clamp(pos[d])
	}
}

// SetEvalWorkers bounds the fitness-evaluation worker pool. Values below 1
// are treated as 1 (serial evaluation).
func (b *base) SetEvalWorkers(n int) {
	if n < 1 {
		n = 1
	}
	b.evalWorkers = n
}

// safeEval contains every failure mode of a fitness function: an error, a
// panic, or a non-finite result all become +Inf for that agent.
func safeEval(fn optimization.FitnessFunc, pos []float64) (fit float64) {
	defer func() {
		if r := recover(); r != nil {
			fit = math.Inf(1)
		}
	}()
	v, err := fn(pos)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.Inf(1)
	}
	return v
}

// evaluate assigns fn(position) to every agent's fitness. Evaluations are
// independent and run across the worker pool; all complete before evaluate
// returns, so leader selection always sees a fully evaluated generation.
func (b *base) evaluate(fn optimization.FitnessFunc) {
	if b.evalWorkers <= 1 || b.populationSize == 1 {
		for i, pos := range b.positions {
			b.fitness[i] = safeEval(fn, pos)
		}
		return
	}

	workers := b.evalWorkers
	if workers > b.populationSize {
		workers = b.populationSize
	}

	indices := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indices {
				b.fitness[i] = safeEval(fn, b.positions[i])
			}
		}()
	}
	for i := 0; i < b.populationSize; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
}

// updateBest replaces the best-known solution only on strict improvement.
func (b *base) updateBest(pos []float64, fit float64) {
	if fit < b.best.Fitness {
		b.best = optimization.Solution{
			Position: append([]float64(nil), pos...),
			Fitness:  fit,
		}
	}
}

// bestAgent returns the index of the fittest agent of the current
// generation, or -1 when every agent is invalid.
func (b *base) bestAgent() int {
	idx := -1
	best := math.Inf(1)
	for i, f := range b.fitness {
		if f < best {
			best = f
			idx = i
		}
	}
	return idx
}

// selectGlobalBest is the single-leader SelectLeaders shared by engines that
// track one global best: update on strict improvement, then record the
// convergence point.
func (b *base) selectGlobalBest(op string) error {
	if err := b.requireInit(op); err != nil {
		return err
	}
	if idx := b.bestAgent(); idx >= 0 {
		b.updateBest(b.positions[idx], b.fitness[idx])
	}
	b.convergence = append(b.convergence, b.best.Fitness)
	return nil
}

// BestPosition returns a copy of the best position found so far, or an empty
// slice before any improvement.
func (b *base) BestPosition() []float64 {
	if b.best.Position == nil {
		return []float64{}
	}
	return append([]float64(nil), b.best.Position...)
}

// BestFitness returns the best fitness found so far, +Inf before any
// improvement.
func (b *base) BestFitness() float64 {
	return b.best.Fitness
}

// ConvergenceData returns a copy of the per-generation best-fitness curve.
func (b *base) ConvergenceData() []float64 {
	return append([]float64(nil), b.convergence...)
}

// FitnessStats reports the mean and standard deviation of the current
// generation's finite fitness values, a cheap diversity signal for progress
// logs. With no finite values both are NaN.
func (b *base) FitnessStats() (mean, stddev float64) {
	finite := make([]float64, 0, len(b.fitness))
	for _, f := range b.fitness {
		if !math.IsInf(f, 0) && !math.IsNaN(f) {
			finite = append(finite, f)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), math.NaN()
	}
	mean = stat.Mean(finite, nil)
	if len(finite) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(finite, nil)
}
