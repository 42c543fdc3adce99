package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		// EvalWorkers bounds the per-engine fitness-evaluation pool.
		EvalWorkers int `env:"OPT_EVAL_WORKERS" envDefault:"4"`
		// DefaultPopulation is used when a request omits population_size.
		DefaultPopulation int `env:"OPT_DEFAULT_POPULATION" envDefault:"30"`
		// DefaultIterations is used when a request omits max_iterations.
		DefaultIterations int `env:"OPT_DEFAULT_ITERATIONS" envDefault:"100"`
		// StallLimit stops a job after this many generations without
		// improvement. Zero disables the check.
		StallLimit int `env:"OPT_STALL_LIMIT" envDefault:"0"`
	}
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
