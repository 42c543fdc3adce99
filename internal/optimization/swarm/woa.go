package swarm

import (
	"math"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// WOAConfig holds the whale optimization hyperparameters.
type WOAConfig struct {
	// ADecreaseFactor is the starting value of the coefficient a, which
	// shrinks linearly to zero over MaxIterations.
	ADecreaseFactor float64
	// SpiralConstant is b in the logarithmic spiral e^(b*l)*cos(2*pi*l).
	SpiralConstant float64
	// MaxIterations is the horizon over which a decays.
	MaxIterations int
	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64
}

// DefaultWOAConfig returns the documented WOA defaults.
func DefaultWOAConfig() WOAConfig {
	return WOAConfig{
		ADecreaseFactor: 2.0,
		SpiralConstant:  1.0,
		MaxIterations:   1000,
	}
}

// WOA implements the whale optimization algorithm. Each generation a whale
// either encircles the prey (moving toward the best whale, or a random whale
// while |A| >= 1), or follows a logarithmic spiral around the best whale.
type WOA struct {
	base
	cfg WOAConfig
}

// NewWOA creates a whale engine.
func NewWOA(cfg WOAConfig) *WOA {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultWOAConfig().MaxIterations
	}
	return &WOA{base: newBase(cfg.Seed), cfg: cfg}
}

// Initialize allocates the pod.
func (w *WOA) Initialize(populationSize, dimension int, bounds []optimization.Bound) error {
	return w.init(populationSize, dimension, bounds)
}

// EvaluateFitness assigns fn to every whale.
func (w *WOA) EvaluateFitness(fn optimization.FitnessFunc) error {
	if err := w.requireInit("EvaluateFitness"); err != nil {
		return err
	}
	w.evaluate(fn)
	return nil
}

// SelectLeaders promotes the pod's fittest whale to best solution on strict
// improvement and records the convergence point.
func (w *WOA) SelectLeaders() error {
	return w.selectGlobalBest("SelectLeaders")
}

// coefficient returns a for the current generation, decaying linearly from
// ADecreaseFactor to zero over the configured horizon.
func (w *WOA) coefficient() float64 {
	t := float64(w.iteration - 1)
	horizon := float64(w.cfg.MaxIterations)
	a := w.cfg.ADecreaseFactor * (1 - t/horizon)
	if a < 0 {
		return 0
	}
	return a
}

// UpdatePositions advances the pod one generation.
func (w *WOA) UpdatePositions(fn optimization.FitnessFunc) error {
	if err := w.requireInit("UpdatePositions"); err != nil {
		return err
	}

	if !w.primed {
		w.evaluate(fn)
		if idx := w.bestAgent(); idx >= 0 {
			w.updateBest(w.positions[idx], w.fitness[idx])
		}
		w.primed = true
	}

	w.iteration++
	a := w.coefficient()
	best := w.best.Position

	for i, pos := range w.positions {
		if best == nil {
			// No valid leader yet; the pod keeps station.
			continue
		}

		if w.rng.Float64() < 0.5 {
			// Encircling prey, or exploring toward a random whale
			// while |A| >= 1.
			A := 2*a*w.rng.Float64() - a
			C := 2 * w.rng.Float64()

			target := best
			if math.Abs(A) >= 1 {
				target = w.positions[w.randomOtherWhale(i)]
			}
			for d := range pos {
				pos[d] = target[d] - A*math.Abs(C*target[d]-pos[d])
			}
		} else {
			// Spiral attack around the best whale.
			l := 2*w.rng.Float64() - 1
			amp := math.Exp(w.cfg.SpiralConstant*l) * math.Cos(2*math.Pi*l)
			for d := range pos {
				pos[d] = math.Abs(best[d]-pos[d])*amp + best[d]
			}
		}
		w.clamp(pos)
	}

	w.evaluate(fn)
	return w.SelectLeaders()
}

// randomOtherWhale picks a random index, preferring one different from i.
func (w *WOA) randomOtherWhale(i int) int {
	if w.populationSize == 1 {
		return i
	}
	j := w.rng.Intn(w.populationSize - 1)
	if j >= i {
		j++
	}
	return j
}
