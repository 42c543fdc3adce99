package swarm

import (
	"math"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// GWOConfig holds the grey wolf hyperparameters.
type GWOConfig struct {
	// AlphaParam is the starting value of the exploration coefficient a.
	AlphaParam float64
	// DecayRate is how much a shrinks per generation, floored at zero.
	DecayRate float64
	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64
}

// DefaultGWOConfig returns the documented GWO defaults.
func DefaultGWOConfig() GWOConfig {
	return GWOConfig{
		AlphaParam: 2.0,
		DecayRate:  0.01,
	}
}

// GWO implements grey wolf optimization. The pack follows a three-leader
// hierarchy: every wolf's next position averages one pull toward each of the
// alpha, beta, and delta wolves.
type GWO struct {
	base
	cfg GWOConfig

	alpha optimization.Solution
	beta  optimization.Solution
	delta optimization.Solution
}

// NewGWO creates a grey wolf engine.
func NewGWO(cfg GWOConfig) *GWO {
	g := &GWO{base: newBase(cfg.Seed), cfg: cfg}
	g.resetLeaders()
	return g
}

func (g *GWO) resetLeaders() {
	g.alpha = optimization.Solution{Fitness: math.Inf(1)}
	g.beta = optimization.Solution{Fitness: math.Inf(1)}
	g.delta = optimization.Solution{Fitness: math.Inf(1)}
}

// Initialize allocates the pack and clears the leader hierarchy.
func (g *GWO) Initialize(populationSize, dimension int, bounds []optimization.Bound) error {
	if err := g.init(populationSize, dimension, bounds); err != nil {
		return err
	}
	g.resetLeaders()
	return nil
}

// EvaluateFitness assigns fn to every wolf.
func (g *GWO) EvaluateFitness(fn optimization.FitnessFunc) error {
	if err := g.requireInit("EvaluateFitness"); err != nil {
		return err
	}
	g.evaluate(fn)
	return nil
}

// refreshHierarchy folds the current generation into the alpha/beta/delta
// leaders. Leaders persist across generations and only improve.
func (g *GWO) refreshHierarchy() {
	for i, f := range g.fitness {
		switch {
		case f < g.alpha.Fitness:
			g.delta = g.beta
			g.beta = g.alpha
			g.alpha = optimization.Solution{
				Position: append([]float64(nil), g.positions[i]...),
				Fitness:  f,
			}
		case f < g.beta.Fitness:
			g.delta = g.beta
			g.beta = optimization.Solution{
				Position: append([]float64(nil), g.positions[i]...),
				Fitness:  f,
			}
		case f < g.delta.Fitness:
			g.delta = optimization.Solution{
				Position: append([]float64(nil), g.positions[i]...),
				Fitness:  f,
			}
		}
	}
}

// SelectLeaders refreshes the alpha/beta/delta hierarchy, promotes the alpha
// to best solution on strict improvement, and records the convergence point.
func (g *GWO) SelectLeaders() error {
	if err := g.requireInit("SelectLeaders"); err != nil {
		return err
	}
	g.refreshHierarchy()
	if g.alpha.Position != nil {
		g.updateBest(g.alpha.Position, g.alpha.Fitness)
	}
	g.convergence = append(g.convergence, g.best.Fitness)
	return nil
}

// coefficient returns the exploration coefficient a for the current
// generation: it decays linearly from AlphaParam toward zero.
func (g *GWO) coefficient() float64 {
	a := g.cfg.AlphaParam - g.cfg.DecayRate*float64(g.iteration-1)
	if a < 0 {
		return 0
	}
	return a
}

// pull computes one leader attraction: leader - A*|C*leader - pos|.
func (g *GWO) pull(leader, pos, a float64) float64 {
	A := 2*a*g.rng.Float64() - a
	C := 2 * g.rng.Float64()
	return leader - A*math.Abs(C*leader-pos)
}

// UpdatePositions advances the pack one generation.
func (g *GWO) UpdatePositions(fn optimization.FitnessFunc) error {
	if err := g.requireInit("UpdatePositions"); err != nil {
		return err
	}

	if !g.primed {
		g.evaluate(fn)
		g.refreshHierarchy()
		if g.alpha.Position != nil {
			g.updateBest(g.alpha.Position, g.alpha.Fitness)
		}
		g.primed = true
	}

	g.iteration++
	a := g.coefficient()

	// A leader can be missing when every evaluation so far failed; wolves
	// only follow leaders that exist.
	leaders := make([]optimization.Solution, 0, 3)
	for _, l := range []optimization.Solution{g.alpha, g.beta, g.delta} {
		if l.Position != nil {
			leaders = append(leaders, l)
		}
	}

	if len(leaders) > 0 {
		for _, pos := range g.positions {
			for d := range pos {
				sum := 0.0
				for _, l := range leaders {
					sum += g.pull(l.Position[d], pos[d], a)
				}
				pos[d] = sum / float64(len(leaders))
			}
			g.clamp(pos)
		}
	}

	g.evaluate(fn)
	return g.SelectLeaders()
}
