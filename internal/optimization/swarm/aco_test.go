package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

func TestACOBinMapping(t *testing.T) {
	cfg := DefaultACOConfig()
	cfg.Bins = 10
	cfg.Seed = 59
	a := NewACO(cfg)
	require.NoError(t, a.Initialize(5, 1, []optimization.Bound{{Min: 0, Max: 10}}))

	assert.Equal(t, 0, a.binOf(0, 0))
	assert.Equal(t, 0, a.binOf(0, 0.99))
	assert.Equal(t, 5, a.binOf(0, 5.5))
	assert.Equal(t, 9, a.binOf(0, 10)) // upper edge folds into the last bin
	assert.Equal(t, 0, a.binOf(0, -3)) // out-of-range values are pinned

	assert.InDelta(t, 0.5, a.binCenter(0, 0), 1e-12)
	assert.InDelta(t, 9.5, a.binCenter(0, 9), 1e-12)
}

func TestACOPheromoneEvaporatesAndReinforces(t *testing.T) {
	cfg := DefaultACOConfig()
	cfg.EvaporationRate = 0.5
	cfg.Seed = 61
	a := NewACO(cfg)
	require.NoError(t, a.Initialize(10, 2, testBounds(2)))

	for i := 0; i < 10; i++ {
		require.NoError(t, a.UpdatePositions(optimization.Sphere))
		for d := range a.pheromone {
			for _, tau := range a.pheromone[d] {
				assert.GreaterOrEqual(t, tau, minPheromone)
			}
		}
	}

	// Trails near the best coordinate should outweigh the far edge once
	// the colony has converged on the sphere optimum around 0.
	for d := range a.pheromone {
		bestBin := a.binOf(d, a.best.Position[d])
		edge := a.pheromone[d][a.cfg.Bins-1]
		if bestBin == a.cfg.Bins-1 {
			edge = a.pheromone[d][0]
		}
		assert.Greater(t, a.pheromone[d][bestBin], edge)
	}
}

func TestACOFailedAntsDepositNothing(t *testing.T) {
	cfg := DefaultACOConfig()
	cfg.EvaporationRate = 0 // isolate deposits
	cfg.Seed = 67
	a := NewACO(cfg)
	require.NoError(t, a.Initialize(6, 1, testBounds(1)))

	failing := func([]float64) (float64, error) { panic("boom") }
	require.NoError(t, a.UpdatePositions(failing))

	for _, tau := range a.pheromone[0] {
		assert.Equal(t, 1.0, tau, "invalid solutions must not reinforce trails")
	}
}
