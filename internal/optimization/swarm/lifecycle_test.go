package swarm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// algorithmNames covers every engine the factory can build.
var algorithmNames = []string{"pso", "gwo", "woa", "genetic", "aco", "de"}

func testBounds(dim int) []optimization.Bound {
	bounds := make([]optimization.Bound, dim)
	for i := range bounds {
		bounds[i] = optimization.Bound{Min: -5, Max: 5}
	}
	return bounds
}

func newSeededEngine(t *testing.T, name string, seed int64) optimization.Algorithm {
	t.Helper()
	engine, err := New(name, map[string]interface{}{"seed": int(seed)})
	require.NoError(t, err)
	return engine
}

func TestAccessorsBeforeInitialize(t *testing.T) {
	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			engine := newSeededEngine(t, name, 1)

			assert.True(t, math.IsInf(engine.BestFitness(), 1))
			assert.Empty(t, engine.BestPosition())
			assert.Empty(t, engine.ConvergenceData())
		})
	}
}

func TestLifecycleCallsBeforeInitializeFail(t *testing.T) {
	sphere := optimization.Sphere

	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			engine := newSeededEngine(t, name, 1)

			err := engine.UpdatePositions(sphere)
			require.Error(t, err)
			_, ok := optimization.IsInitializationError(err)
			assert.True(t, ok, "UpdatePositions should fail with InitializationError, got %T", err)

			err = engine.EvaluateFitness(sphere)
			_, ok = optimization.IsInitializationError(err)
			assert.True(t, ok, "EvaluateFitness should fail with InitializationError, got %T", err)

			err = engine.SelectLeaders()
			_, ok = optimization.IsInitializationError(err)
			assert.True(t, ok, "SelectLeaders should fail with InitializationError, got %T", err)

			// The instance stays usable after a correct Initialize.
			require.NoError(t, engine.Initialize(10, 2, testBounds(2)))
			require.NoError(t, engine.UpdatePositions(sphere))
		})
	}
}

func TestInitializeValidation(t *testing.T) {
	tests := []struct {
		name           string
		populationSize int
		dimension      int
		bounds         []optimization.Bound
	}{
		{name: "zero population", populationSize: 0, dimension: 2, bounds: testBounds(2)},
		{name: "zero dimension", populationSize: 10, dimension: 0, bounds: nil},
		{name: "bounds mismatch", populationSize: 10, dimension: 3, bounds: testBounds(2)},
		{name: "inverted bound", populationSize: 10, dimension: 1, bounds: []optimization.Bound{{Min: 5, Max: -5}}},
	}

	for _, algo := range algorithmNames {
		for _, tt := range tests {
			t.Run(algo+"/"+tt.name, func(t *testing.T) {
				engine := newSeededEngine(t, algo, 1)

				err := engine.Initialize(tt.populationSize, tt.dimension, tt.bounds)
				require.Error(t, err)
				_, ok := optimization.IsConfigurationError(err)
				assert.True(t, ok, "expected ConfigurationError, got %T", err)

				// No partial state: the engine still rejects lifecycle
				// calls.
				err = engine.UpdatePositions(optimization.Sphere)
				_, ok = optimization.IsInitializationError(err)
				assert.True(t, ok)
			})
		}
	}
}

func TestInitialPositionsWithinBounds(t *testing.T) {
	bounds := []optimization.Bound{{Min: -2, Max: 3}, {Min: 10, Max: 11}, {Min: -0.5, Max: 0.5}}

	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			engine := newSeededEngine(t, name, 7)
			require.NoError(t, engine.Initialize(25, 3, bounds))

			for _, pos := range engineBase(t, engine).positions {
				require.Len(t, pos, 3)
				for d, v := range pos {
					assert.GreaterOrEqual(t, v, bounds[d].Min)
					assert.LessOrEqual(t, v, bounds[d].Max)
				}
			}
		})
	}
}

func TestConvergenceHistoryAndMonotonicBest(t *testing.T) {
	const iterations = 25

	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			engine := newSeededEngine(t, name, 99)
			require.NoError(t, engine.Initialize(20, 3, testBounds(3)))

			prev := engine.BestFitness()
			for i := 0; i < iterations; i++ {
				require.NoError(t, engine.UpdatePositions(optimization.Rastrigin))

				best := engine.BestFitness()
				assert.LessOrEqual(t, best, prev, "best fitness regressed at iteration %d", i+1)
				prev = best

				for _, pos := range engineBase(t, engine).positions {
					for _, v := range pos {
						assert.GreaterOrEqual(t, v, -5.0)
						assert.LessOrEqual(t, v, 5.0)
					}
				}
			}

			curve := engine.ConvergenceData()
			require.Len(t, curve, iterations)
			for i := 1; i < len(curve); i++ {
				assert.LessOrEqual(t, curve[i], curve[i-1])
			}
			assert.False(t, math.IsInf(engine.BestFitness(), 1), "expected some progress on rastrigin")
		})
	}
}

func TestFailingFitnessIsContained(t *testing.T) {
	failures := map[string]optimization.FitnessFunc{
		"error":    func([]float64) (float64, error) { return 0, errors.New("boom") },
		"panic":    func([]float64) (float64, error) { panic("boom") },
		"nan":      func([]float64) (float64, error) { return math.NaN(), nil },
		"infinite": func([]float64) (float64, error) { return math.Inf(-1), nil },
	}

	for _, name := range algorithmNames {
		for mode, fn := range failures {
			t.Run(name+"/"+mode, func(t *testing.T) {
				engine := newSeededEngine(t, name, 3)
				require.NoError(t, engine.Initialize(8, 2, testBounds(2)))

				for i := 0; i < 10; i++ {
					require.NoError(t, engine.UpdatePositions(fn))
				}

				assert.True(t, math.IsInf(engine.BestFitness(), 1),
					"best fitness should stay +Inf when every evaluation fails")
				assert.Len(t, engine.ConvergenceData(), 10)
			})
		}
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			run := func() []float64 {
				engine := newSeededEngine(t, name, 1234)
				require.NoError(t, engine.Initialize(15, 2, testBounds(2)))
				for i := 0; i < 20; i++ {
					require.NoError(t, engine.UpdatePositions(optimization.Sphere))
				}
				return engine.ConvergenceData()
			}

			assert.Equal(t, run(), run(), "identical seeds must produce identical convergence curves")
		})
	}
}

func TestReinitializeResetsState(t *testing.T) {
	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			engine := newSeededEngine(t, name, 5)
			require.NoError(t, engine.Initialize(10, 2, testBounds(2)))
			for i := 0; i < 5; i++ {
				require.NoError(t, engine.UpdatePositions(optimization.Sphere))
			}
			require.NotEmpty(t, engine.ConvergenceData())

			require.NoError(t, engine.Initialize(12, 3, testBounds(3)))
			assert.Empty(t, engine.ConvergenceData())
			assert.True(t, math.IsInf(engine.BestFitness(), 1))
			assert.Len(t, engineBase(t, engine).positions, 12)
		})
	}
}

func TestParallelEvaluationMatchesSerial(t *testing.T) {
	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			serial := newSeededEngine(t, name, 21)
			parallel := newSeededEngine(t, name, 21)
			if w, ok := parallel.(interface{ SetEvalWorkers(int) }); ok {
				w.SetEvalWorkers(4)
			} else {
				t.Fatalf("%s does not expose SetEvalWorkers", name)
			}

			require.NoError(t, serial.Initialize(16, 2, testBounds(2)))
			require.NoError(t, parallel.Initialize(16, 2, testBounds(2)))

			for i := 0; i < 10; i++ {
				require.NoError(t, serial.UpdatePositions(optimization.Sphere))
				require.NoError(t, parallel.UpdatePositions(optimization.Sphere))
			}

			assert.Equal(t, serial.ConvergenceData(), parallel.ConvergenceData())
		})
	}
}

// engineBase exposes the embedded base of any engine for assertions.
func engineBase(t *testing.T, engine optimization.Algorithm) *base {
	t.Helper()
	switch e := engine.(type) {
	case *PSO:
		return &e.base
	case *GWO:
		return &e.base
	case *WOA:
		return &e.base
	case *GA:
		return &e.base
	case *ACO:
		return &e.base
	case *DE:
		return &e.base
	default:
		t.Fatalf("unknown engine type %T", engine)
		return nil
	}
}
