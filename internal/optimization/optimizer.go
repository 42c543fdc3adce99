// Package optimization defines the shared contract for the HIVE swarm
// optimization engines: bounds, the fitness function type, the polymorphic
// algorithm lifecycle, and the driver that runs it.
package optimization

import (
	"math"
)

// Algorithm is the lifecycle shared by every swarm engine (PSO, GWO, WOA,
// GA, ACO, DE). An instance is stateful and single-threaded; independent
// instances may run concurrently without synchronization.
type Algorithm interface {
	// Initialize allocates the population with positions sampled uniformly
	// within bounds, resets the iteration counter and convergence history,
	// and sets the best-known fitness to +Inf. It returns a
	// *ConfigurationError for an invalid population size, dimension, or
	// bounds. Re-initializing discards all prior state.
	Initialize(populationSize, dimension int, bounds []Bound) error

	// EvaluateFitness assigns fn(position) to every agent's fitness.
	// Evaluations that panic, fail, or return a non-finite value are
	// contained: the agent's fitness becomes +Inf for this generation.
	// Positions are never mutated.
	EvaluateFitness(fn FitnessFunc) error

	// SelectLeaders identifies the generation's leader(s), updates the best
	// solution only on strict improvement, and appends the best-known
	// fitness to the convergence history.
	SelectLeaders() error

	// UpdatePositions runs one full generation: increment the iteration
	// counter, move every agent per the algorithm's update rule, clamp to
	// bounds, evaluate, then select leaders. It is the only mutating entry
	// point besides Initialize.
	UpdatePositions(fn FitnessFunc) error

	// BestPosition returns a copy of the best position found so far, or an
	// empty slice before any improvement. Read-only.
	BestPosition() []float64

	// BestFitness returns the best fitness found so far, or +Inf before any
	// improvement. Read-only.
	BestFitness() float64

	// ConvergenceData returns a copy of the best-known fitness recorded
	// after each completed UpdatePositions call. Read-only.
	ConvergenceData() []float64
}

// Bound is the admissible [Min, Max] range for one dimension. Computed
// coordinates are clamped into it.
type Bound struct {
	Min float64
	Max float64
}

// Clamp returns v limited to the bound's range.
func (b Bound) Clamp(v float64) float64 {
	return math.Max(b.Min, math.Min(v, b.Max))
}

// Span returns the width of the bound.
func (b Bound) Span() float64 {
	return b.Max - b.Min
}

// FitnessFunc maps a position to a fitness value under the minimization
// convention. It may be stochastic. Errors, panics, and non-finite results
// are contained by the engine and never abort an optimization run.
type FitnessFunc func(position []float64) (float64, error)

// Solution is a position and its fitness.
type Solution struct {
	Position []float64
	Fitness  float64
}

// Result is what a driver run returns to the caller.
type Result struct {
	BestPosition []float64
	BestFitness  float64
	Convergence  []float64
	Iterations   int
}
