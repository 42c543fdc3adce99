package swarm

import (
	"fmt"
	"strings"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// DEConfig holds the differential evolution hyperparameters.
type DEConfig struct {
	// CrossoverRate is the per-component probability of inheriting from the
	// mutant vector (binomial crossover).
	CrossoverRate float64
	// DifferentialWeight scales the difference vector (F).
	DifferentialWeight float64
	// Strategy names the mutation scheme, e.g. "DE/rand/1/bin" or
	// "DE/best/1/bin".
	Strategy string
	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64
}

// DefaultDEConfig returns the documented DE defaults.
func DefaultDEConfig() DEConfig {
	return DEConfig{
		CrossoverRate:      0.7,
		DifferentialWeight: 0.8,
		Strategy:           "DE/rand/1/bin",
	}
}

// DE implements differential evolution with binomial crossover and greedy
// per-target selection: a trial vector replaces its target only when
// strictly fitter, so stored fitness never regresses.
type DE struct {
	base
	cfg     DEConfig
	useBest bool
}

// NewDE creates a differential evolution engine. Unknown strategies are
// rejected.
func NewDE(cfg DEConfig) (*DE, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultDEConfig().Strategy
	}
	d := &DE{base: newBase(cfg.Seed), cfg: cfg}
	switch strings.ToLower(cfg.Strategy) {
	case "de/rand/1/bin", "rand/1/bin":
		d.useBest = false
	case "de/best/1/bin", "best/1/bin":
		d.useBest = true
	default:
		return nil, optimization.NewConfigurationError("strategy",
			"unsupported DE strategy %q", cfg.Strategy)
	}
	return d, nil
}

// Initialize allocates the vector population.
func (d *DE) Initialize(populationSize, dimension int, bounds []optimization.Bound) error {
	return d.init(populationSize, dimension, bounds)
}

// EvaluateFitness assigns fn to every vector.
func (d *DE) EvaluateFitness(fn optimization.FitnessFunc) error {
	if err := d.requireInit("EvaluateFitness"); err != nil {
		return err
	}
	d.evaluate(fn)
	return nil
}

// SelectLeaders promotes the fittest vector to best solution on strict
// improvement and records the convergence point.
func (d *DE) SelectLeaders() error {
	return d.selectGlobalBest("SelectLeaders")
}

// distinctIndices picks three mutually distinct indices, all different
// from the target i. Populations too small to supply three others reuse
// the available indices in random order, repeating only as much as the
// population forces; the target is drawn only when it is the sole vector.
func (d *DE) distinctIndices(i int) (int, int, int) {
	if d.populationSize >= 4 {
		used := map[int]bool{i: true}
		pick := func() int {
			for {
				j := d.rng.Intn(d.populationSize)
				if !used[j] {
					used[j] = true
					return j
				}
			}
		}
		a := pick()
		b := pick()
		c := pick()
		return a, b, c
	}

	others := make([]int, 0, 2)
	for j := 0; j < d.populationSize; j++ {
		if j != i {
			others = append(others, j)
		}
	}
	if len(others) == 0 {
		return i, i, i
	}
	d.rng.Shuffle(len(others), func(a, b int) {
		others[a], others[b] = others[b], others[a]
	})
	return others[0], others[1%len(others)], others[2%len(others)]
}

// UpdatePositions evolves every target vector through mutation, binomial
// crossover, and greedy selection.
func (d *DE) UpdatePositions(fn optimization.FitnessFunc) error {
	if err := d.requireInit("UpdatePositions"); err != nil {
		return err
	}

	// Greedy selection needs each target's own fitness, so the first
	// generation assesses the initial population before evolving it.
	if !d.primed {
		d.evaluate(fn)
		if idx := d.bestAgent(); idx >= 0 {
			d.updateBest(d.positions[idx], d.fitness[idx])
		}
		d.primed = true
	}

	d.iteration++

	trial := make([]float64, d.dimension)
	for i, target := range d.positions {
		ai, bi, ci := d.distinctIndices(i)

		donor := d.positions[ai]
		if d.useBest && d.best.Position != nil {
			donor = d.best.Position
		}

		// Binomial crossover with a forced mutant component so the
		// trial always differs from its target.
		forced := d.rng.Intn(d.dimension)
		for k := range trial {
			if k == forced || d.rng.Float64() < d.cfg.CrossoverRate {
				trial[k] = donor[k] + d.cfg.DifferentialWeight*(d.positions[bi][k]-d.positions[ci][k])
			} else {
				trial[k] = target[k]
			}
		}
		d.clamp(trial)

		if fit := safeEval(fn, trial); fit < d.fitness[i] {
			copy(d.positions[i], trial)
			d.fitness[i] = fit
		}
	}

	return d.SelectLeaders()
}

// String names the engine including its strategy, for logs.
func (d *DE) String() string {
	return fmt.Sprintf("de(%s)", strings.ToLower(d.cfg.Strategy))
}
