package swarm

import (
	"math"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// PSOConfig holds the particle swarm hyperparameters.
type PSOConfig struct {
	// InertiaWeight damps the previous velocity.
	InertiaWeight float64
	// CognitiveCoef scales the pull toward each particle's personal best.
	CognitiveCoef float64
	// SocialCoef scales the pull toward the global best.
	SocialCoef float64
	// MaxVelocity clamps each velocity component to [-MaxVelocity, MaxVelocity].
	MaxVelocity float64
	// Seed for the random source. Zero seeds from the wall clock.
	Seed int64
}

// DefaultPSOConfig returns the documented PSO defaults.
func DefaultPSOConfig() PSOConfig {
	return PSOConfig{
		InertiaWeight: 0.7,
		CognitiveCoef: 1.5,
		SocialCoef:    1.5,
		MaxVelocity:   1.0,
	}
}

// PSO implements particle swarm optimization. Each particle carries a
// velocity and remembers its personal best; movement blends inertia with
// pulls toward the personal and global bests.
type PSO struct {
	base
	cfg PSOConfig

	velocities   [][]float64
	pbestPos     [][]float64
	pbestFitness []float64
}

// NewPSO creates a particle swarm engine.
func NewPSO(cfg PSOConfig) *PSO {
	return &PSO{base: newBase(cfg.Seed), cfg: cfg}
}

// Initialize allocates the swarm with zero velocities; personal bests start
// at the initial positions with unknown (+Inf) fitness.
func (p *PSO) Initialize(populationSize, dimension int, bounds []optimization.Bound) error {
	if err := p.init(populationSize, dimension, bounds); err != nil {
		return err
	}
	p.velocities = make([][]float64, populationSize)
	p.pbestPos = make([][]float64, populationSize)
	p.pbestFitness = make([]float64, populationSize)
	for i := range p.velocities {
		p.velocities[i] = make([]float64, dimension)
		p.pbestPos[i] = append([]float64(nil), p.positions[i]...)
		p.pbestFitness[i] = math.Inf(1)
	}
	return nil
}

// EvaluateFitness assigns fn to every particle.
func (p *PSO) EvaluateFitness(fn optimization.FitnessFunc) error {
	if err := p.requireInit("EvaluateFitness"); err != nil {
		return err
	}
	p.evaluate(fn)
	return nil
}

// SelectLeaders refreshes each particle's personal best, promotes the
// generation's fittest particle to global best on strict improvement, and
// records the convergence point.
func (p *PSO) SelectLeaders() error {
	if err := p.requireInit("SelectLeaders"); err != nil {
		return err
	}
	p.refreshPersonalBests()
	return p.selectGlobalBest("SelectLeaders")
}

func (p *PSO) refreshPersonalBests() {
	for i, f := range p.fitness {
		if f < p.pbestFitness[i] {
			p.pbestFitness[i] = f
			copy(p.pbestPos[i], p.positions[i])
		}
	}
}

// UpdatePositions advances the swarm one generation.
func (p *PSO) UpdatePositions(fn optimization.FitnessFunc) error {
	if err := p.requireInit("UpdatePositions"); err != nil {
		return err
	}

	// The first generation assesses the initial swarm so the global best
	// is defined before any particle moves.
	if !p.primed {
		p.evaluate(fn)
		p.refreshPersonalBests()
		if idx := p.bestAgent(); idx >= 0 {
			p.updateBest(p.positions[idx], p.fitness[idx])
		}
		p.primed = true
	}

	p.iteration++

	for i, pos := range p.positions {
		vel := p.velocities[i]
		for d := range pos {
			r1 := p.rng.Float64()
			r2 := p.rng.Float64()

			v := p.cfg.InertiaWeight*vel[d] +
				p.cfg.CognitiveCoef*r1*(p.pbestPos[i][d]-pos[d])
			if p.best.Position != nil {
				v += p.cfg.SocialCoef * r2 * (p.best.Position[d] - pos[d])
			}

			if v > p.cfg.MaxVelocity {
				v = p.cfg.MaxVelocity
			} else if v < -p.cfg.MaxVelocity {
				v = -p.cfg.MaxVelocity
			}

			vel[d] = v
			pos[d] += v
		}
		p.clamp(pos)
	}

	p.evaluate(fn)
	return p.SelectLeaders()
}
