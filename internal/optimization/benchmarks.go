package optimization

import (
	"fmt"
	"math"
	"strings"
)

// Benchmark objective functions used by the HTTP service (named objectives)
// and the convergence tests. All follow the minimization convention with a
// global optimum of 0.

// Sphere is f(x) = sum(x_i^2), optimum at the origin.
func Sphere(x []float64) (float64, error) {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum, nil
}

// Rosenbrock is the classic banana-valley function, optimum at (1, ..., 1).
func Rosenbrock(x []float64) (float64, error) {
	sum := 0.0
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum, nil
}

// Rastrigin is highly multimodal, optimum at the origin.
func Rastrigin(x []float64) (float64, error) {
	sum := 10.0 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum, nil
}

// Ackley has a nearly flat outer region and a deep hole at the origin.
func Ackley(x []float64) (float64, error) {
	n := float64(len(x))
	sumSq, sumCos := 0.0, 0.0
	for _, v := range x {
		sumSq += v * v
		sumCos += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E, nil
}

// Griewank combines a quadratic bowl with an oscillating product term.
func Griewank(x []float64) (float64, error) {
	sum, prod := 0.0, 1.0
	for i, v := range x {
		sum += v * v / 4000
		prod *= math.Cos(v / math.Sqrt(float64(i+1)))
	}
	return sum - prod + 1, nil
}

// BenchmarkByName resolves a named benchmark objective. Names are matched
// case-insensitively.
func BenchmarkByName(name string) (FitnessFunc, error) {
	switch strings.ToLower(name) {
	case "sphere":
		return Sphere, nil
	case "rosenbrock":
		return Rosenbrock, nil
	case "rastrigin":
		return Rastrigin, nil
	case "ackley":
		return Ackley, nil
	case "griewank":
		return Griewank, nil
	default:
		return nil, fmt.Errorf("unknown benchmark objective: %s", name)
	}
}
