package query

import "sort"

// Less orders two entities for a given sort field
type Less[T any] func(a, b *T) bool

// Sorter validates a requested sort field against an entity's allow-listed
// sortable fields. Unrecognized fields fall back to the default rather than
// failing the request; the default is always a stable, documented field
// (the identifier or creation timestamp).
type Sorter[T any] struct {
	fields       map[string]Less[T]
	defaultField string
}

// NewSorter creates a sorter whose default field also serves as the final
// tie-break, keeping every ordering deterministic
func NewSorter[T any](defaultField string, less Less[T]) *Sorter[T] {
	s := &Sorter[T]{fields: make(map[string]Less[T]), defaultField: defaultField}
	s.fields[defaultField] = less
	return s
}

// Field registers an additional sortable field
func (s *Sorter[T]) Field(name string, less Less[T]) *Sorter[T] {
	s.fields[name] = less
	return s
}

// Resolve returns the validated sort field, falling back to the default
func (s *Sorter[T]) Resolve(sortBy string) string {
	if _, ok := s.fields[sortBy]; ok {
		return sortBy
	}
	return s.defaultField
}

// Apply sorts items in place by the resolved field and direction, breaking
// ties with the default field ascending
func (s *Sorter[T]) Apply(items []*T, sortBy string, direction Direction) {
	field := s.Resolve(sortBy)
	less := s.fields[field]
	tieBreak := s.fields[s.defaultField]

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if direction == Desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		// Equal on the sort field: identifier ascending regardless of direction
		return tieBreak(items[i], items[j])
	})
}
