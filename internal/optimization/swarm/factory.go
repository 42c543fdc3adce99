package swarm

import (
	"fmt"
	"strings"

	"github.com/copyleftdev/HIVE/internal/optimization"
)

// New constructs an engine by name. Names are matched case-insensitively
// against pso, gwo, woa, genetic (or ga), aco, and de. Missing parameters
// take the documented defaults; an unrecognized name fails with
// "Unknown algorithm type: <name>".
//
// Recognized parameters per algorithm:
//
//	pso:     inertia_weight, cognitive_coef, social_coef, max_velocity
//	gwo:     alpha_param, decay_rate
//	woa:     a_decrease_factor, spiral_constant, max_iterations
//	genetic: crossover_rate, mutation_rate, elitism_count, tournament_size
//	aco:     evaporation_rate, alpha, beta, bins
//	de:      crossover_rate, differential_weight, strategy
//
// Every algorithm also accepts seed (int) for reproducible runs.
func New(name string, params map[string]interface{}) (optimization.Algorithm, error) {
	switch strings.ToLower(name) {
	case "pso":
		cfg := DefaultPSOConfig()
		cfg.InertiaWeight = floatParam(params, "inertia_weight", cfg.InertiaWeight)
		cfg.CognitiveCoef = floatParam(params, "cognitive_coef", cfg.CognitiveCoef)
		cfg.SocialCoef = floatParam(params, "social_coef", cfg.SocialCoef)
		cfg.MaxVelocity = floatParam(params, "max_velocity", cfg.MaxVelocity)
		cfg.Seed = seedParam(params)
		return NewPSO(cfg), nil

	case "gwo":
		cfg := DefaultGWOConfig()
		cfg.AlphaParam = floatParam(params, "alpha_param", cfg.AlphaParam)
		cfg.DecayRate = floatParam(params, "decay_rate", cfg.DecayRate)
		cfg.Seed = seedParam(params)
		return NewGWO(cfg), nil

	case "woa":
		cfg := DefaultWOAConfig()
		cfg.ADecreaseFactor = floatParam(params, "a_decrease_factor", cfg.ADecreaseFactor)
		cfg.SpiralConstant = floatParam(params, "spiral_constant", cfg.SpiralConstant)
		cfg.MaxIterations = intParam(params, "max_iterations", cfg.MaxIterations)
		cfg.Seed = seedParam(params)
		return NewWOA(cfg), nil

	case "genetic", "ga":
		cfg := DefaultGAConfig()
		cfg.CrossoverRate = floatParam(params, "crossover_rate", cfg.CrossoverRate)
		cfg.MutationRate = floatParam(params, "mutation_rate", cfg.MutationRate)
		cfg.ElitismCount = intParam(params, "elitism_count", cfg.ElitismCount)
		cfg.TournamentSize = intParam(params, "tournament_size", cfg.TournamentSize)
		cfg.Seed = seedParam(params)
		return NewGA(cfg), nil

	case "aco":
		cfg := DefaultACOConfig()
		cfg.EvaporationRate = floatParam(params, "evaporation_rate", cfg.EvaporationRate)
		cfg.Alpha = floatParam(params, "alpha", cfg.Alpha)
		cfg.Beta = floatParam(params, "beta", cfg.Beta)
		cfg.Bins = intParam(params, "bins", cfg.Bins)
		cfg.Seed = seedParam(params)
		return NewACO(cfg), nil

	case "de":
		cfg := DefaultDEConfig()
		cfg.CrossoverRate = floatParam(params, "crossover_rate", cfg.CrossoverRate)
		cfg.DifferentialWeight = floatParam(params, "differential_weight", cfg.DifferentialWeight)
		cfg.Strategy = stringParam(params, "strategy", cfg.Strategy)
		cfg.Seed = seedParam(params)
		return NewDE(cfg)

	default:
		return nil, fmt.Errorf("Unknown algorithm type: %s", name)
	}
}

// floatParam reads a numeric parameter, accepting the types a decoded JSON
// or hand-built map is likely to carry.
func floatParam(params map[string]interface{}, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}

// intParam reads an integer parameter, truncating float values.
func intParam(params map[string]interface{}, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return def
	}
}

// stringParam reads a string parameter.
func stringParam(params map[string]interface{}, key string, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

// seedParam reads the shared seed parameter; zero means non-deterministic.
func seedParam(params map[string]interface{}) int64 {
	return int64(intParam(params, "seed", 0))
}
