package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmarkOptima(t *testing.T) {
	tests := []struct {
		name    string
		fn      FitnessFunc
		optimum []float64
	}{
		{name: "sphere", fn: Sphere, optimum: []float64{0, 0, 0}},
		{name: "rosenbrock", fn: Rosenbrock, optimum: []float64{1, 1, 1}},
		{name: "rastrigin", fn: Rastrigin, optimum: []float64{0, 0, 0}},
		{name: "ackley", fn: Ackley, optimum: []float64{0, 0, 0}},
		{name: "griewank", fn: Griewank, optimum: []float64{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atOptimum, err := tt.fn(tt.optimum)
			require.NoError(t, err)
			assert.InDelta(t, 0, atOptimum, 1e-9, "optimum should evaluate to 0")

			offOptimum, err := tt.fn([]float64{2.5, -3.1, 1.7})
			require.NoError(t, err)
			assert.Greater(t, offOptimum, atOptimum)
		})
	}
}

func TestBenchmarkByName(t *testing.T) {
	fn, err := BenchmarkByName("Sphere")
	require.NoError(t, err)
	v, err := fn([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)

	_, err = BenchmarkByName("not-a-benchmark")
	assert.EqualError(t, err, "unknown benchmark objective: not-a-benchmark")
}
