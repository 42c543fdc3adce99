package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

func TestWOACoefficientDecaysToZero(t *testing.T) {
	cfg := DefaultWOAConfig()
	cfg.ADecreaseFactor = 2.0
	cfg.MaxIterations = 100
	cfg.Seed = 83
	w := NewWOA(cfg)
	require.NoError(t, w.Initialize(5, 1, testBounds(1)))

	w.iteration = 1
	assert.InDelta(t, 2.0, w.coefficient(), 1e-12)
	w.iteration = 51
	assert.InDelta(t, 1.0, w.coefficient(), 1e-12)
	w.iteration = 101
	assert.InDelta(t, 0.0, w.coefficient(), 1e-12)
	w.iteration = 500
	assert.Equal(t, 0.0, w.coefficient(), "coefficient is floored at zero past the horizon")
}

func TestWOADefaultHorizon(t *testing.T) {
	w := NewWOA(WOAConfig{ADecreaseFactor: 2, SpiralConstant: 1, Seed: 89})
	assert.Equal(t, 1000, w.cfg.MaxIterations, "non-positive horizon falls back to the default")
}

func TestWOARandomOtherWhale(t *testing.T) {
	cfg := DefaultWOAConfig()
	cfg.Seed = 97
	w := NewWOA(cfg)
	require.NoError(t, w.Initialize(8, 1, testBounds(1)))

	for trial := 0; trial < 50; trial++ {
		i := trial % 8
		assert.NotEqual(t, i, w.randomOtherWhale(i))
	}

	solo := NewWOA(cfg)
	require.NoError(t, solo.Initialize(1, 1, testBounds(1)))
	assert.Equal(t, 0, solo.randomOtherWhale(0))
}

func TestWOAMovesTowardBestOnSphere(t *testing.T) {
	cfg := DefaultWOAConfig()
	cfg.MaxIterations = 50
	cfg.Seed = 101
	w := NewWOA(cfg)
	require.NoError(t, w.Initialize(20, 2, testBounds(2)))

	for i := 0; i < 50; i++ {
		require.NoError(t, w.UpdatePositions(optimization.Sphere))
	}
	assert.Less(t, w.BestFitness(), 0.5)
}
