package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBounds(t *testing.T) {
	valid := []Bound{{Min: -5, Max: 5}, {Min: 0, Max: 1}}

	tests := []struct {
		name           string
		populationSize int
		dimension      int
		bounds         []Bound
		wantErr        bool
	}{
		{name: "valid", populationSize: 10, dimension: 2, bounds: valid},
		{name: "zero population", populationSize: 0, dimension: 2, bounds: valid, wantErr: true},
		{name: "negative population", populationSize: -1, dimension: 2, bounds: valid, wantErr: true},
		{name: "zero dimension", populationSize: 10, dimension: 0, bounds: nil, wantErr: true},
		{name: "bounds length mismatch", populationSize: 10, dimension: 3, bounds: valid, wantErr: true},
		{name: "inverted bound", populationSize: 10, dimension: 1, bounds: []Bound{{Min: 2, Max: 1}}, wantErr: true},
		{name: "degenerate bound", populationSize: 10, dimension: 1, bounds: []Bound{{Min: 1, Max: 1}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBounds(tt.populationSize, tt.dimension, tt.bounds)
			if tt.wantErr {
				require.Error(t, err)
				cfgErr, ok := IsConfigurationError(err)
				require.True(t, ok, "expected a ConfigurationError, got %T", err)
				assert.NotEmpty(t, cfgErr.Field)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBoundClamp(t *testing.T) {
	b := Bound{Min: -1, Max: 1}
	assert.Equal(t, -1.0, b.Clamp(-3))
	assert.Equal(t, 1.0, b.Clamp(7))
	assert.Equal(t, 0.25, b.Clamp(0.25))
	assert.Equal(t, 2.0, b.Span())
}

func TestInitializationError(t *testing.T) {
	err := NewInitializationError("UpdatePositions")
	assert.EqualError(t, err, "UpdatePositions called before Initialize")
	_, ok := IsInitializationError(err)
	assert.True(t, ok)
	_, ok = IsConfigurationError(err)
	assert.False(t, ok)
}
