package optimization

import (
	"context"
	"math"

	"go.uber.org/zap"
)

// DriverConfig controls the canonical optimization loop.
type DriverConfig struct {
	// MaxIterations is the iteration budget. Must be positive.
	MaxIterations int

	// StallLimit stops the run after this many consecutive generations
	// without strict improvement of the best fitness. Zero disables the
	// check.
	StallLimit int

	// TargetFitness stops the run once the best fitness drops below it.
	// NaN disables the check.
	TargetFitness float64

	// LogEvery emits a progress log every N generations when a logger is
	// set. Zero disables progress logging.
	LogEvery int

	// OnGeneration, when set, receives the generation count and a snapshot
	// of the best solution after every UpdatePositions call. It runs on the
	// driver's goroutine; implementations that share state with other
	// goroutines must synchronize. The snapshot position is a copy and safe
	// to retain.
	OnGeneration func(iteration int, best Solution)
}

// DefaultDriverConfig returns a DriverConfig with the target check disabled
// and a 100-iteration budget.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		MaxIterations: 100,
		TargetFitness: math.NaN(),
	}
}

// PopulationStats is implemented by engines that can report generation
// fitness statistics. The driver uses it for progress logging only.
type PopulationStats interface {
	FitnessStats() (mean, stddev float64)
}

// Driver owns the generation loop: it repeatedly calls UpdatePositions on an
// initialized engine until the iteration budget is exhausted, the stall limit
// fires, the target fitness is crossed, or the context is cancelled.
// Cancellation is cooperative and checked once per generation; there is no
// mid-generation cancellation.
type Driver struct {
	cfg    DriverConfig
	logger *zap.Logger
}

// NewDriver creates a Driver. logger may be nil.
func NewDriver(cfg DriverConfig, logger *zap.Logger) (*Driver, error) {
	if cfg.MaxIterations <= 0 {
		return nil, NewConfigurationError("max_iterations", "must be positive, got %d", cfg.MaxIterations)
	}
	if cfg.StallLimit < 0 {
		return nil, NewConfigurationError("stall_limit", "must not be negative, got %d", cfg.StallLimit)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{cfg: cfg, logger: logger}, nil
}

// Run executes the loop against an already-initialized engine and returns the
// best solution, the convergence curve, and the number of generations run.
// A cancelled context returns the context error along with a partial result.
func (d *Driver) Run(ctx context.Context, algo Algorithm, fn FitnessFunc) (*Result, error) {
	stall := 0
	prevBest := algo.BestFitness()

	iterations := 0
	var runErr error

loop:
	for i := 0; i < d.cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break loop
		default:
		}

		if err := algo.UpdatePositions(fn); err != nil {
			runErr = err
			break loop
		}
		iterations++

		best := algo.BestFitness()
		if best < prevBest {
			stall = 0
		} else {
			stall++
		}
		prevBest = best

		if d.cfg.OnGeneration != nil {
			d.cfg.OnGeneration(iterations, Solution{
				Position: algo.BestPosition(),
				Fitness:  best,
			})
		}

		if d.cfg.LogEvery > 0 && iterations%d.cfg.LogEvery == 0 {
			fields := []zap.Field{
				zap.Int("iteration", iterations),
				zap.Float64("best_fitness", best),
				zap.Int("stall", stall),
			}
			if s, ok := algo.(PopulationStats); ok {
				mean, stddev := s.FitnessStats()
				fields = append(fields,
					zap.Float64("fitness_mean", mean),
					zap.Float64("fitness_stddev", stddev),
				)
			}
			d.logger.Debug("generation complete", fields...)
		}

		if d.cfg.StallLimit > 0 && stall >= d.cfg.StallLimit {
			d.logger.Debug("stopping early: stall limit reached",
				zap.Int("iteration", iterations),
				zap.Int("stall_limit", d.cfg.StallLimit),
			)
			break
		}
		if !math.IsNaN(d.cfg.TargetFitness) && best < d.cfg.TargetFitness {
			d.logger.Debug("stopping early: target fitness reached",
				zap.Int("iteration", iterations),
				zap.Float64("best_fitness", best),
				zap.Float64("target", d.cfg.TargetFitness),
			)
			break
		}
	}

	result := &Result{
		BestPosition: algo.BestPosition(),
		BestFitness:  algo.BestFitness(),
		Convergence:  algo.ConvergenceData(),
		Iterations:   iterations,
	}
	return result, runErr
}
