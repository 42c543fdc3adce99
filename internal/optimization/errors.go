package optimization

import "fmt"

// ConfigurationError reports an invalid population size, dimension, bounds,
// or algorithm parameters at construction or Initialize time. It is a
// programmer error: no partial engine state is created when it is returned.
type ConfigurationError struct {
	// Field is the configuration field that failed validation.
	Field string
	// Message describes why the value was rejected.
	Message string
}

// Error returns the string representation of the error.
func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Message)
}

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// InitializationError reports a lifecycle call made before Initialize.
// The call fails but the instance remains usable after a correct Initialize.
type InitializationError struct {
	// Op is the operation that was attempted.
	Op string
}

// Error returns the string representation of the error.
func (e *InitializationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s called before Initialize", e.Op)
}

// NewInitializationError creates an InitializationError for the given
// operation.
func NewInitializationError(op string) *InitializationError {
	return &InitializationError{Op: op}
}

// IsConfigurationError reports whether err is a *ConfigurationError,
// returning the typed error when it is.
func IsConfigurationError(err error) (*ConfigurationError, bool) {
	if e, ok := err.(*ConfigurationError); ok {
		return e, true
	}
	return nil, false
}

// IsInitializationError reports whether err is an *InitializationError,
// returning the typed error when it is.
func IsInitializationError(err error) (*InitializationError, bool) {
	if e, ok := err.(*InitializationError); ok {
		return e, true
	}
	return nil, false
}

// ValidateBounds checks the invariants shared by every engine: positive
// population size and dimension, bounds of matching length, and Min < Max
// for every pair.
func ValidateBounds(populationSize, dimension int, bounds []Bound) error {
	if populationSize <= 0 {
		return NewConfigurationError("population_size", "must be positive, got %d", populationSize)
	}
	if dimension <= 0 {
		return NewConfigurationError("dimension", "must be positive, got %d", dimension)
	}
	if len(bounds) != dimension {
		return NewConfigurationError("bounds", "expected %d bounds, got %d", dimension, len(bounds))
	}
	for i, b := range bounds {
		if b.Min >= b.Max {
			return NewConfigurationError("bounds", "dimension %d: min %v must be less than max %v", i, b.Min, b.Max)
		}
	}
	return nil
}
