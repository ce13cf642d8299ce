package greenops

import "slices"

// Activity categories known to the factor table.
const (
	CategoryTransport = "transport"
	CategoryDiet      = "diet"
	CategoryEnergy    = "energy"
)

// factorEntry is one row of the static factor table.
type factorEntry struct {
	subcategory string
	factor      float64
	unit        string
}

// factorTable holds kg CO2e per natural unit of each activity.
// Row order is the display order.
//
//nolint:gochecknoglobals // Static lookup table.
var factorTable = map[string][]factorEntry{
	CategoryTransport: {
		{"car", 0.21, "km"},
		{"bus", 0.089, "km"},
		{"train", 0.041, "km"},
		{"bike", 0, "km"},
		{"walk", 0, "km"},
		{"plane", 0.255, "km"},
	},
	CategoryDiet: {
		{"meat", 6.61, "meal"},
		{"vegetarian", 1.05, "meal"},
		{"vegan", 0.63, "meal"},
	},
	CategoryEnergy: {
		{"electricity", 0.5, "kWh"},
		{"gas", 2.0, "m³"},
		{"heating", 0.185, "kWh"},
	},
}

// Categories returns the known categories in display order.
func Categories() []string {
	return []string{CategoryTransport, CategoryDiet, CategoryEnergy}
}

// IsKnownCategory reports whether category has rows in the factor table.
func IsKnownCategory(category string) bool {
	_, ok := factorTable[category]
	return ok
}

// Subcategories returns the subcategories of category in display order,
// or nil for an unknown category.
func Subcategories(category string) []string {
	rows := factorTable[category]
	if rows == nil {
		return nil
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.subcategory)
	}
	return out
}

// Factor returns kg CO2e per unit for the pair. Unknown pairs yield 0,
// never an error: an unrecognised activity simply contributes nothing.
func Factor(category, subcategory string) float64 {
	if e, ok := lookup(category, subcategory); ok {
		return e.factor
	}
	return 0
}

// UnitFor returns the natural unit of the pair ("km", "meal", "kWh", "m³"),
// or "" when the pair is unknown.
func UnitFor(category, subcategory string) string {
	if e, ok := lookup(category, subcategory); ok {
		return e.unit
	}
	return ""
}

// IsKnownPair reports whether the pair has an entry in the factor table.
func IsKnownPair(category, subcategory string) bool {
	_, ok := lookup(category, subcategory)
	return ok
}

func lookup(category, subcategory string) (factorEntry, bool) {
	rows := factorTable[category]
	i := slices.IndexFunc(rows, func(e factorEntry) bool { return e.subcategory == subcategory })
	if i < 0 {
		return factorEntry{}, false
	}
	return rows[i], true
}

// FactorRow is an exported view of one factor table row.
type FactorRow struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Factor      float64 `json:"factor"`
	Unit        string  `json:"unit"`
}

// FactorTable returns every row of the table in display order.
func FactorTable() []FactorRow {
	var rows []FactorRow
	for _, c := range Categories() {
		for _, e := range factorTable[c] {
			rows = append(rows, FactorRow{Category: c, Subcategory: e.subcategory, Factor: e.factor, Unit: e.unit})
		}
	}
	return rows
}
