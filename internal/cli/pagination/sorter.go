package pagination

import (
	"fmt"
	"sort"

	"github.com/rshade/ecopulse/internal/engine"
)

// Activity sort fields.
const (
	SortFieldDate        = "date"
	SortFieldEmissions   = "emissions"
	SortFieldCategory    = "category"
	SortFieldSubcategory = "subcategory"
	SortFieldQuantity    = "quantity"
)

// ActivitySorter orders activities by one field.
type ActivitySorter struct {
	validFields map[string]bool
}

// NewActivitySorter returns a sorter accepting the fields above.
func NewActivitySorter() *ActivitySorter {
	return &ActivitySorter{
		validFields: map[string]bool{
			SortFieldDate:        true,
			SortFieldEmissions:   true,
			SortFieldCategory:    true,
			SortFieldSubcategory: true,
			SortFieldQuantity:    true,
		},
	}
}

// IsValidField reports whether field can be sorted on.
func (s *ActivitySorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// ValidFields returns the sortable fields in alphabetical order.
func (s *ActivitySorter) ValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of activities. The sort is stable so equal keys
// keep log order. An empty field returns a copy in log order.
func (s *ActivitySorter) Sort(activities []engine.Activity, field, order string) ([]engine.Activity, error) {
	sorted := make([]engine.Activity, len(activities))
	copy(sorted, activities)
	if field == "" {
		return sorted, nil
	}
	if !s.IsValidField(field) {
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrInvalidSortField, field, s.ValidFields())
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortOrderDesc {
			i, j = j, i
		}
		switch field {
		case SortFieldDate:
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		case SortFieldEmissions:
			return sorted[i].Emissions < sorted[j].Emissions
		case SortFieldCategory:
			return sorted[i].Category < sorted[j].Category
		case SortFieldSubcategory:
			return sorted[i].Subcategory < sorted[j].Subcategory
		case SortFieldQuantity:
			return sorted[i].Quantity < sorted[j].Quantity
		default:
			return false
		}
	})
	return sorted, nil
}
