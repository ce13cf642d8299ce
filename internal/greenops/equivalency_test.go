package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		input       CarbonInput
		wantMiles   float64
		wantPhones  float64
		wantIsEmpty bool
		wantErr     error
	}{
		{
			name:       "150kg reference value",
			input:      CarbonInput{Value: 150.0, Unit: "kg"},
			wantMiles:  781.25,
			wantPhones: 18248.18,
		},
		{
			name:       "grams normalized",
			input:      CarbonInput{Value: 150000.0, Unit: "g"},
			wantMiles:  781.25,
			wantPhones: 18248.18,
		},
		{
			name:       "tons normalized",
			input:      CarbonInput{Value: 0.15, Unit: "tCO2e"},
			wantMiles:  781.25,
			wantPhones: 18248.18,
		},
		{
			name:        "below threshold",
			input:       CarbonInput{Value: 0.5, Unit: "kg"},
			wantIsEmpty: true,
		},
		{
			name:    "negative",
			input:   CarbonInput{Value: -1, Unit: "kg"},
			wantErr: ErrNegativeValue,
		},
		{
			name:    "bad unit",
			input:   CarbonInput{Value: 10, Unit: "furlongs"},
			wantErr: ErrInvalidUnit,
		},
		{
			name:    "infinite",
			input:   CarbonInput{Value: math.Inf(1), Unit: "kg"},
			wantErr: ErrCalculationOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Calculate(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, out.IsEmpty)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIsEmpty, out.IsEmpty)
			if tt.wantIsEmpty {
				assert.Empty(t, out.Results)
				return
			}

			require.Len(t, out.Results, 4)
			assert.Equal(t, EquivalencyMilesDriven, out.Results[0].Type)
			assert.InEpsilon(t, tt.wantMiles, out.Results[0].Value, 0.01)
			assert.InEpsilon(t, tt.wantPhones, out.Results[1].Value, 0.01)
			assert.Equal(t, EquivalencyHomeDays, out.Results[3].Type)
			assert.Contains(t, out.DisplayText, "driving ~781 miles")
			assert.Contains(t, out.DisplayText, "18,248 smartphones")
			assert.Contains(t, out.CompactText, "mi")
		})
	}
}

func TestForFootprint(t *testing.T) {
	out := ForFootprint(60)
	require.False(t, out.IsEmpty)
	assert.InDelta(t, 1.0, out.Results[2].Value, 1e-9)

	assert.True(t, ForFootprint(0).IsEmpty)
	assert.True(t, ForFootprint(-5).IsEmpty)
}

func TestEquivalencyTypeString(t *testing.T) {
	assert.Equal(t, "MilesDriven", EquivalencyMilesDriven.String())
	assert.Equal(t, "TreeSeedlings", EquivalencyTreeSeedlings.String())
	assert.Equal(t, "EquivalencyType(42)", EquivalencyType(42).String())
}
