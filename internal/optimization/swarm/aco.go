package swarm

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// ACOConfig holds the ant colony hyperparameters.
type ACOConfig struct {
	// EvaporationRate is the fraction of pheromone lost per generation.
	EvaporationRate float64
	// Alpha weights pheromone intensity during construction.
	Alpha float64
	// Beta weights heuristic desirability during construction.
	Beta float64
	// Bins is the per-dimension discretization of the search interval.
	Bins int
	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64
}

// DefaultACOConfig returns the documented ACO defaults.
func DefaultACOConfig() ACOConfig {
	return ACOConfig{
		EvaporationRate: 0.1,
		Alpha:           1.0,
		Beta:            2.0,
		Bins:            10,
	}
}

// minPheromone keeps every bin reachable after evaporation.
const minPheromone = 1e-4

// ACO implements a continuous-domain ant colony. Each dimension's interval
// is discretized into bins carrying pheromone; ants construct positions by
// sampling a bin per dimension with probability proportional to
// pheromone^alpha * heuristic^beta, where the heuristic favors bins close to
// the incumbent best. Trails evaporate each generation and are reinforced in
// proportion to solution quality.
type ACO struct {
	base
	cfg ACOConfig

	// pheromone[d][j] is the trail intensity of bin j in dimension d.
	pheromone [][]float64
	// trail[i][d] is the bin ant i used for dimension d this generation.
	trail [][]int
}

// NewACO creates an ant colony engine.
func NewACO(cfg ACOConfig) *ACO {
	if cfg.Bins < 2 {
		cfg.Bins = DefaultACOConfig().Bins
	}
	return &ACO{base: newBase(cfg.Seed), cfg: cfg}
}

// Initialize allocates the colony and lays uniform pheromone.
func (a *ACO) Initialize(populationSize, dimension int, bounds []optimization.Bound) error {
	if err := a.init(populationSize, dimension, bounds); err != nil {
		return err
	}
	a.pheromone = make([][]float64, dimension)
	for d := range a.pheromone {
		a.pheromone[d] = make([]float64, a.cfg.Bins)
		for j := range a.pheromone[d] {
			a.pheromone[d][j] = 1.0
		}
	}
	a.trail = make([][]int, populationSize)
	for i := range a.trail {
		a.trail[i] = make([]int, dimension)
		for d := range a.trail[i] {
			a.trail[i][d] = a.binOf(d, a.positions[i][d])
		}
	}
	return nil
}

// EvaluateFitness assigns fn to every ant.
func (a *ACO) EvaluateFitness(fn optimization.FitnessFunc) error {
	if err := a.requireInit("EvaluateFitness"); err != nil {
		return err
	}
	a.evaluate(fn)
	return nil
}

// binOf maps a coordinate to its bin index in dimension d.
func (a *ACO) binOf(d int, v float64) int {
	bound := a.bounds[d]
	j := int(float64(a.cfg.Bins) * (v - bound.Min) / bound.Span())
	if j < 0 {
		return 0
	}
	if j >= a.cfg.Bins {
		return a.cfg.Bins - 1
	}
	return j
}

// binCenter returns the midpoint of bin j in dimension d.
func (a *ACO) binCenter(d, j int) float64 {
	bound := a.bounds[d]
	width := bound.Span() / float64(a.cfg.Bins)
	return bound.Min + (float64(j)+0.5)*width
}

// deposit reinforces the trails walked this generation. Each ant deposits in
// proportion to its solution quality, and the best-so-far solution lays an
// extra elitist trail.
func (a *ACO) deposit() {
	for i, bins := range a.trail {
		f := a.fitness[i]
		if math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		amount := 1 / (1 + math.Abs(f))
		for d, j := range bins {
			a.pheromone[d][j] += amount
		}
	}
	if a.best.Position != nil {
		amount := 1 / (1 + math.Abs(a.best.Fitness))
		for d, v := range a.best.Position {
			a.pheromone[d][a.binOf(d, v)] += amount
		}
	}
}

// SelectLeaders promotes the colony's fittest ant to best solution on strict
// improvement, reinforces the trails, and records the convergence point.
func (a *ACO) SelectLeaders() error {
	if err := a.requireInit("SelectLeaders"); err != nil {
		return err
	}
	if idx := a.bestAgent(); idx >= 0 {
		a.updateBest(a.positions[idx], a.fitness[idx])
	}
	a.deposit()
	a.convergence = append(a.convergence, a.best.Fitness)
	return nil
}

// chooseBin samples a bin for dimension d by roulette over
// pheromone^alpha * heuristic^beta.
func (a *ACO) chooseBin(d int) int {
	weights := make([]float64, a.cfg.Bins)
	for j := range weights {
		tau := math.Pow(a.pheromone[d][j], a.cfg.Alpha)
		eta := 1.0
		if a.best.Position != nil {
			// Desirability decays with distance from the incumbent
			// best coordinate.
			eta = math.Pow(1/(1+math.Abs(a.binCenter(d, j)-a.best.Position[d])), a.cfg.Beta)
		}
		weights[j] = tau * eta
	}

	total := floats.Sum(weights)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return a.rng.Intn(a.cfg.Bins)
	}

	r := a.rng.Float64() * total
	acc := 0.0
	for j, w := range weights {
		acc += w
		if r <= acc {
			return j
		}
	}
	return a.cfg.Bins - 1
}

// UpdatePositions evaporates the trails, lets every ant construct a new
// position, and reinforces the trails after evaluation.
func (a *ACO) UpdatePositions(fn optimization.FitnessFunc) error {
	if err := a.requireInit("UpdatePositions"); err != nil {
		return err
	}

	if !a.primed {
		a.evaluate(fn)
		if idx := a.bestAgent(); idx >= 0 {
			a.updateBest(a.positions[idx], a.fitness[idx])
		}
		a.primed = true
	}

	a.iteration++

	for d := range a.pheromone {
		for j := range a.pheromone[d] {
			a.pheromone[d][j] *= 1 - a.cfg.EvaporationRate
			if a.pheromone[d][j] < minPheromone {
				a.pheromone[d][j] = minPheromone
			}
		}
	}

	for i, pos := range a.positions {
		for d, bound := range a.bounds {
			j := a.chooseBin(d)
			a.trail[i][d] = j
			width := bound.Span() / float64(a.cfg.Bins)
			pos[d] = bound.Min + (float64(j)+a.rng.Float64())*width
		}
		a.clamp(pos)
	}

	a.evaluate(fn)
	return a.SelectLeaders()
}
