// Package greenops holds the emission factor table and turns kg CO2e into
// numbers people can picture.
//
// Activities are priced through Factor and Emissions. Footprint totals are
// translated into EPA equivalencies (miles driven, phones charged, tree
// seedlings, home electricity days) for summaries.
package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts CO2e to tree seedlings grown for 10 years.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays converts CO2e to days of average US home electricity use.
	EquivalencyHomeDays
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	case EquivalencyTreeSeedlings:
		return "TreeSeedlings"
	case EquivalencyHomeDays:
		return "HomeDays"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// CarbonInput is a carbon amount in some unit (g, kg, t, lb and the CO2e variants).
type CarbonInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formattedValue"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalency results for display.
type EquivalencyOutput struct {
	// InputKg is the normalized input value in kilograms CO2e.
	InputKg float64 `json:"inputKg"`

	// Results are ordered miles, phones, trees, home days.
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form used by summaries.
	// Example: "Equivalent to driving ~781 miles or charging ~18,248 smartphones"
	DisplayText string `json:"displayText"`

	// CompactText is the abbreviated form used in tables.
	// Example: "(≈ 781 mi, 18,248 phones)"
	CompactText string `json:"compactText"`

	IsEmpty bool `json:"isEmpty"`
}
