package greenops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactor(t *testing.T) {
	tests := []struct {
		category    string
		subcategory string
		want        float64
	}{
		{CategoryTransport, "car", 0.21},
		{CategoryTransport, "bus", 0.089},
		{CategoryTransport, "train", 0.041},
		{CategoryTransport, "bike", 0},
		{CategoryTransport, "walk", 0},
		{CategoryTransport, "plane", 0.255},
		{CategoryDiet, "meat", 6.61},
		{CategoryDiet, "vegetarian", 1.05},
		{CategoryDiet, "vegan", 0.63},
		{CategoryEnergy, "electricity", 0.5},
		{CategoryEnergy, "gas", 2.0},
		{CategoryEnergy, "heating", 0.185},
		{CategoryTransport, "rocket", 0},
		{"shopping", "shoes", 0},
		{CategoryDiet, "car", 0},
	}

	for _, tt := range tests {
		t.Run(tt.category+"/"+tt.subcategory, func(t *testing.T) {
			assert.InDelta(t, tt.want, Factor(tt.category, tt.subcategory), 1e-9)
		})
	}
}

func TestEmissions(t *testing.T) {
	assert.InDelta(t, 2.1, Emissions(CategoryTransport, "car", 10), 1e-9)
	assert.InDelta(t, 13.22, Emissions(CategoryDiet, "meat", 2), 1e-9)
	assert.Zero(t, Emissions(CategoryTransport, "bike", 100))
	assert.Zero(t, Emissions("unknown", "thing", 5))
	assert.Zero(t, Emissions(CategoryEnergy, "gas", -3))
	assert.Zero(t, Emissions(CategoryEnergy, "gas", math.NaN()))
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10", 10},
		{" 2.5 ", 2.5},
		{"12km", 12},
		{".5", 0.5},
		{"1e2", 100},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e400", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseQuantity(tt.in), 1e-9)
		})
	}
}

func TestCategoriesAndSubcategories(t *testing.T) {
	assert.Equal(t, []string{"transport", "diet", "energy"}, Categories())
	assert.Equal(t, []string{"car", "bus", "train", "bike", "walk", "plane"}, Subcategories(CategoryTransport))
	assert.Equal(t, []string{"meat", "vegetarian", "vegan"}, Subcategories(CategoryDiet))
	assert.Nil(t, Subcategories("shopping"))
	assert.True(t, IsKnownCategory(CategoryEnergy))
	assert.False(t, IsKnownCategory("shopping"))
	assert.True(t, IsKnownPair(CategoryEnergy, "heating"))
	assert.False(t, IsKnownPair(CategoryEnergy, "car"))
}

func TestUnitFor(t *testing.T) {
	assert.Equal(t, "km", UnitFor(CategoryTransport, "plane"))
	assert.Equal(t, "meal", UnitFor(CategoryDiet, "vegan"))
	assert.Equal(t, "kWh", UnitFor(CategoryEnergy, "electricity"))
	assert.Equal(t, "m³", UnitFor(CategoryEnergy, "gas"))
	assert.Empty(t, UnitFor("x", "y"))
}

func TestFactorTable(t *testing.T) {
	rows := FactorTable()
	assert.Len(t, rows, 12)
	assert.Equal(t, FactorRow{Category: "transport", Subcategory: "car", Factor: 0.21, Unit: "km"}, rows[0])
	assert.Equal(t, "heating", rows[len(rows)-1].Subcategory)
}
