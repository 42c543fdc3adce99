package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

func TestGWOHierarchyOrdering(t *testing.T) {
	cfg := DefaultGWOConfig()
	cfg.Seed = 31
	g := NewGWO(cfg)
	require.NoError(t, g.Initialize(20, 3, testBounds(3)))

	for i := 0; i < 15; i++ {
		require.NoError(t, g.UpdatePositions(optimization.Sphere))

		assert.LessOrEqual(t, g.alpha.Fitness, g.beta.Fitness)
		assert.LessOrEqual(t, g.beta.Fitness, g.delta.Fitness)
		assert.Equal(t, g.alpha.Fitness, g.BestFitness())
	}
}

func TestGWOCoefficientDecay(t *testing.T) {
	cfg := DefaultGWOConfig()
	cfg.AlphaParam = 2.0
	cfg.DecayRate = 0.5
	cfg.Seed = 37
	g := NewGWO(cfg)
	require.NoError(t, g.Initialize(5, 1, testBounds(1)))

	g.iteration = 1
	assert.Equal(t, 2.0, g.coefficient())
	g.iteration = 3
	assert.Equal(t, 1.0, g.coefficient())
	g.iteration = 100
	assert.Equal(t, 0.0, g.coefficient(), "coefficient is floored at zero")
}

func TestGWOLeadersResetOnInitialize(t *testing.T) {
	cfg := DefaultGWOConfig()
	cfg.Seed = 41
	g := NewGWO(cfg)
	require.NoError(t, g.Initialize(10, 2, testBounds(2)))
	for i := 0; i < 5; i++ {
		require.NoError(t, g.UpdatePositions(optimization.Sphere))
	}
	require.NotNil(t, g.alpha.Position)

	require.NoError(t, g.Initialize(10, 2, testBounds(2)))
	assert.Nil(t, g.alpha.Position)
	assert.Nil(t, g.beta.Position)
	assert.Nil(t, g.delta.Position)
}
