package logging

import (
	"io"
	"os"
	"strings"
)

// Config describes how a Logger is built. Values normally come from the
// LOG_LEVEL, LOG_FORMAT, and LOG_OUTPUT environment variables via the
// config package.
type Config struct {
	// Level is the minimum severity to emit (debug, info, warn, error, fatal).
	Level string
	// Format selects the encoder. Only "json" is supported today; the field
	// exists so a text encoder can be added without changing callers.
	Format string
	// Output is stdout, stderr, or a file path opened in append mode.
	Output string
}

// DefaultConfig returns the configuration used when none is supplied:
// info-level JSON on stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "stderr",
	}
}

// NewLogger builds a Logger from cfg. A nil cfg gets DefaultConfig.
func NewLogger(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	out, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return New(parseLevel(cfg.Level), out), nil
}

var levelNames = map[string]LogLevel{
	"DEBUG": DebugLevel,
	"INFO":  InfoLevel,
	"WARN":  WarnLevel,
	"ERROR": ErrorLevel,
	"FATAL": FatalLevel,
}

// parseLevel maps a level name to a LogLevel, defaulting to info for
// anything unrecognized.
func parseLevel(level string) LogLevel {
	if lvl, ok := levelNames[strings.ToUpper(level)]; ok {
		return lvl
	}
	return InfoLevel
}

func openOutput(output string) (io.Writer, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		return os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	}
}
