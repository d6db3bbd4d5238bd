package query

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Predicate is a composable boolean condition over an entity
type Predicate[T any] func(*T) bool

// Registry maps query parameter names to comparison strategies over an
// entity's fields. Unknown parameters are ignored (forward-compatible),
// absent parameters impose no constraint, and distinct filters are
// AND-combined.
type Registry[T any] struct {
	builders []func(Params) Predicate[T]
}

// NewRegistry creates an empty field registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{}
}

// Exact registers an exact-match filter (ids, enums). Multiple values for
// the same parameter are OR-combined (membership).
func (r *Registry[T]) Exact(param string, get func(*T) string) *Registry[T] {
	r.builders = append(r.builders, func(p Params) Predicate[T] {
		wanted := p.Values(param)
		if len(wanted) == 0 {
			return nil
		}
		return func(item *T) bool {
			value := get(item)
			for _, w := range wanted {
				if value == w {
					return true
				}
			}
			return false
		}
	})
	return r
}

// Search registers the case-insensitive substring filter bound to the
// reserved "search" parameter, OR-combined across the given text fields
func (r *Registry[T]) Search(fields ...func(*T) string) *Registry[T] {
	r.builders = append(r.builders, func(p Params) Predicate[T] {
		term := strings.ToLower(p.Get(ParamSearch))
		if term == "" {
			return nil
		}
		return func(item *T) bool {
			for _, get := range fields {
				if strings.Contains(strings.ToLower(get(item)), term) {
					return true
				}
			}
			return false
		}
	})
	return r
}

// DecimalRange registers an inclusive numeric range filter with optional
// bounds. An inverted range matches nothing. Unparseable bound values are
// ignored like unknown parameters.
func (r *Registry[T]) DecimalRange(minParam, maxParam string, get func(*T) decimal.Decimal) *Registry[T] {
	r.builders = append(r.builders, func(p Params) Predicate[T] {
		min, hasMin := parseDecimal(p.Get(minParam))
		max, hasMax := parseDecimal(p.Get(maxParam))
		if !hasMin && !hasMax {
			return nil
		}
		return func(item *T) bool {
			value := get(item)
			if hasMin && value.LessThan(min) {
				return false
			}
			if hasMax && value.GreaterThan(max) {
				return false
			}
			return true
		}
	})
	return r
}

// DateRange registers an inclusive date range filter with optional bounds.
// Values are accepted as 2006-01-02 or RFC 3339; a date-only end bound
// covers the whole day.
func (r *Registry[T]) DateRange(startParam, endParam string, get func(*T) time.Time) *Registry[T] {
	r.builders = append(r.builders, func(p Params) Predicate[T] {
		start, hasStart := ParseDate(p.Get(startParam))
		end, hasEnd := ParseDateEnd(p.Get(endParam))
		if !hasStart && !hasEnd {
			return nil
		}
		return func(item *T) bool {
			value := get(item)
			if hasStart && value.Before(start) {
				return false
			}
			if hasEnd && value.After(end) {
				return false
			}
			return true
		}
	})
	return r
}

// Build produces the AND-combined predicate for the supplied parameters.
// With no applicable parameters the predicate matches everything.
func (r *Registry[T]) Build(params Params) Predicate[T] {
	var active []Predicate[T]
	for _, build := range r.builders {
		if pred := build(params); pred != nil {
			active = append(active, pred)
		}
	}
	if len(active) == 0 {
		return func(*T) bool { return true }
	}
	return func(item *T) bool {
		for _, pred := range active {
			if !pred(item) {
				return false
			}
		}
		return true
	}
}

// Filter returns the items matching the predicate, preserving order
func Filter[T any](items []*T, pred Predicate[T]) []*T {
	out := make([]*T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func parseDecimal(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseDate parses a 2006-01-02 or RFC 3339 value
func ParseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ParseDateEnd parses an end bound; date-only values are pushed to the end
// of the day so the bound stays inclusive
func ParseDateEnd(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
