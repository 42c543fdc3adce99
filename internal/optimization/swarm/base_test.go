package swarm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

func TestSafeEval(t *testing.T) {
	pos := []float64{1, 2}

	tests := []struct {
		name string
		fn   optimization.FitnessFunc
		want float64
	}{
		{
			name: "finite value passes through",
			fn:   func(x []float64) (float64, error) { return x[0] + x[1], nil },
			want: 3,
		},
		{
			name: "error becomes +Inf",
			fn:   func([]float64) (float64, error) { return 1, errors.New("boom") },
			want: math.Inf(1),
		},
		{
			name: "panic becomes +Inf",
			fn:   func([]float64) (float64, error) { panic("boom") },
			want: math.Inf(1),
		},
		{
			name: "NaN becomes +Inf",
			fn:   func([]float64) (float64, error) { return math.NaN(), nil },
			want: math.Inf(1),
		},
		{
			name: "-Inf becomes +Inf",
			fn:   func([]float64) (float64, error) { return math.Inf(-1), nil },
			want: math.Inf(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeEval(tt.fn, pos))
		})
	}
}

func TestEvaluateDoesNotMutatePositions(t *testing.T) {
	b := newBase(103)
	require.NoError(t, b.init(10, 2, testBounds(2)))

	before := make([][]float64, len(b.positions))
	for i, pos := range b.positions {
		before[i] = append([]float64(nil), pos...)
	}

	b.evaluate(optimization.Sphere)
	assert.Equal(t, before, b.positions)
}

func TestFitnessStats(t *testing.T) {
	b := newBase(107)
	require.NoError(t, b.init(4, 1, testBounds(1)))

	b.fitness = []float64{1, 2, 3, math.Inf(1)}
	mean, stddev := b.FitnessStats()
	assert.InDelta(t, 2.0, mean, 1e-12)
	assert.InDelta(t, 1.0, stddev, 1e-12)

	b.fitness = []float64{math.Inf(1), math.Inf(1), math.NaN(), math.Inf(1)}
	mean, stddev = b.FitnessStats()
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(stddev))

	b.fitness = []float64{5, math.Inf(1), math.Inf(1), math.Inf(1)}
	mean, stddev = b.FitnessStats()
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 0.0, stddev)
}

func TestUpdateBestRequiresStrictImprovement(t *testing.T) {
	b := newBase(109)
	require.NoError(t, b.init(2, 1, testBounds(1)))

	b.updateBest([]float64{1}, 10)
	assert.Equal(t, 10.0, b.best.Fitness)

	// Equal fitness must not replace the incumbent.
	b.updateBest([]float64{2}, 10)
	assert.Equal(t, []float64{1}, b.best.Position)

	b.updateBest([]float64{3}, 9)
	assert.Equal(t, []float64{3}, b.best.Position)
	assert.Equal(t, 9.0, b.best.Fitness)
}

func TestBestPositionReturnsCopy(t *testing.T) {
	b := newBase(113)
	require.NoError(t, b.init(2, 1, testBounds(1)))
	b.updateBest([]float64{1.5}, 1)

	got := b.BestPosition()
	got[0] = -100
	assert.Equal(t, []float64{1.5}, b.BestPosition())
}
