package greenops

import (
	"fmt"
	"math"
)

// equivalencySpec describes how one equivalency is derived from kg CO2e.
type equivalencySpec struct {
	typ    EquivalencyType
	factor float64
	label  string
}

//nolint:gochecknoglobals // Static lookup table.
var equivalencySpecs = []equivalencySpec{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity"},
}

// Calculate normalizes input to kilograms and computes every EPA equivalency.
//
// Inputs below MinEquivalencyThresholdKg produce an empty output with InputKg
// set and no error. Normalization failures are returned as-is;
// non-finite intermediate values return ErrCalculationOverflow.
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}

	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(equivalencySpecs))
	for _, s := range equivalencySpecs {
		v := kg / s.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           s.typ,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          s.label,
		})
	}

	miles := results[0].FormattedValue
	phones := results[1].FormattedValue

	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", miles, phones),
	}, nil
}

// ForFootprint computes equivalencies for a footprint already in kg CO2e.
// Errors collapse to an empty output since footprints are never negative.
func ForFootprint(kg float64) EquivalencyOutput {
	out, err := Calculate(CarbonInput{Value: kg, Unit: "kg"})
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}
	}
	return out
}

// formatEquivalencyValue rounds to an integer with separators, switching to
// "~X.X million" style past LargeNumberThreshold.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
