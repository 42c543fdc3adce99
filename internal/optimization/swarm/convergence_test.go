package swarm

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// End-to-end convergence checks on the 2D sphere function: every engine gets
// a 30-agent population, a 100-generation budget, and bounds of [-5, 5].

func sphereSetup(t *testing.T, name string, params map[string]interface{}) optimization.Algorithm {
	t.Helper()
	engine, err := New(name, params)
	require.NoError(t, err)
	require.NoError(t, engine.Initialize(30, 2, testBounds(2)))
	return engine
}

func TestPSOSolvesSphere(t *testing.T) {
	engine := sphereSetup(t, "pso", map[string]interface{}{"seed": 2024})

	for i := 0; i < 100; i++ {
		require.NoError(t, engine.UpdatePositions(optimization.Sphere))
	}

	assert.Less(t, engine.BestFitness(), 1e-3)
	for _, v := range engine.BestPosition() {
		assert.InDelta(t, 0, v, 0.1)
	}
}

func TestWOASolvesSphere(t *testing.T) {
	engine := sphereSetup(t, "woa", map[string]interface{}{
		"seed":           2025,
		"max_iterations": 100,
	})

	for i := 0; i < 100; i++ {
		require.NoError(t, engine.UpdatePositions(optimization.Sphere))
	}

	assert.Less(t, engine.BestFitness(), 1e-2)
}

func TestEveryAlgorithmImprovesOnSphere(t *testing.T) {
	for _, name := range algorithmNames {
		t.Run(name, func(t *testing.T) {
			params := map[string]interface{}{"seed": 31415}
			if name == "woa" {
				params["max_iterations"] = 100
			}
			engine := sphereSetup(t, name, params)

			require.NoError(t, engine.UpdatePositions(optimization.Sphere))
			initial := engine.BestFitness()
			require.False(t, math.IsInf(initial, 1))

			for i := 0; i < 99; i++ {
				require.NoError(t, engine.UpdatePositions(optimization.Sphere))
			}

			assert.Less(t, engine.BestFitness(), initial,
				"100 generations should improve on the first generation's best")
			assert.Less(t, engine.BestFitness(), 1.0)
		})
	}
}

func TestDriverRunsEngineEndToEnd(t *testing.T) {
	engine := sphereSetup(t, "de", map[string]interface{}{"seed": 2026})

	cfg := optimization.DefaultDriverConfig()
	cfg.MaxIterations = 100
	cfg.TargetFitness = 1e-6
	driver, err := optimization.NewDriver(cfg, nil)
	require.NoError(t, err)

	result, err := driver.Run(context.Background(), engine, optimization.Sphere)
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Iterations, 100)
	assert.Len(t, result.Convergence, result.Iterations)
	assert.Less(t, result.BestFitness, 1.0)
	assert.Len(t, result.BestPosition, 2)
}
