package query

import (
	"strconv"
	"time"

	"github.com/finledger/finledger-backend/internal/domain"
)

// Aggregator computes a metadata view (distinct values, counts, rankings,
// composite summaries) over an already-filtered, owner-scoped collection.
// Aggregators must tolerate empty input and return a zero-valued result.
type Aggregator[T any] func(items []*T, params Params) (interface{}, error)

// Resource is the per-resource entry point of the query engine: the field
// registry, sort allow-list, pager and metadata dispatch table of one
// list-capable endpoint, assembled once via configuration.
type Resource[T any] struct {
	Filters  *Registry[T]
	Sort     *Sorter[T]
	Pager    Pager
	Metadata map[string]Aggregator[T]
}

// Execute runs a request over the owner's entities. Without a metadata token
// it filters, sorts and paginates; with one it dispatches to the matching
// aggregator. Unknown tokens are a validation error, not a fall-through to
// the list path.
func (r *Resource[T]) Execute(spec Spec, items []*T) (interface{}, error) {
	filtered := Filter(items, r.Filters.Build(spec.Filters))

	if spec.Metadata != "" {
		agg, ok := r.Metadata[spec.Metadata]
		if !ok {
			return nil, &domain.ValidationError{
				Code:    domain.CodeUnsupportedMetadata,
				Message: "unsupported metadata type " + strconv.Quote(spec.Metadata),
				Fields: []domain.FieldError{
					{Field: ParamData, Message: "unsupported metadata type", Rejected: spec.Metadata},
				},
			}
		}
		return agg(filtered, spec.Filters)
	}

	r.Sort.Apply(filtered, spec.SortBy, spec.SortDirection)
	page, size := r.Pager.Normalize(spec.Page, spec.Size)
	return Paginate(filtered, page, size), nil
}

// RequireParam returns the value of a mandatory aggregator parameter,
// or a validation error naming the missing field
func RequireParam(params Params, name string) (string, error) {
	value := params.Get(name)
	if value == "" {
		return "", domain.NewMissingParameterError(name)
	}
	return value, nil
}

// RequireDateRange returns the mandatory startDate/endDate pair of a
// metrics-style aggregator
func RequireDateRange(params Params) (time.Time, time.Time, error) {
	rawStart, err := RequireParam(params, "startDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	rawEnd, err := RequireParam(params, "endDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, ok := ParseDate(rawStart)
	if !ok {
		return time.Time{}, time.Time{}, domain.NewFieldValidationError(
			"startDate", "must be a date (2006-01-02) or RFC 3339 timestamp", rawStart)
	}
	end, ok := ParseDateEnd(rawEnd)
	if !ok {
		return time.Time{}, time.Time{}, domain.NewFieldValidationError(
			"endDate", "must be a date (2006-01-02) or RFC 3339 timestamp", rawEnd)
	}

	return start, end, nil
}

// Limit reads an optional ranking limit, clamped to [1, max]
func Limit(params Params, def, max int) int {
	limit := def
	if raw := params.Get(ParamLimit); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}
