package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Reserved query parameter names shared by every list endpoint
const (
	ParamSearch        = "search"
	ParamSortBy        = "sortBy"
	ParamSortDirection = "sortDirection"
	ParamPage          = "page"
	ParamSize          = "size"
	ParamData          = "data"
	ParamLimit         = "limit"
)

// Direction is a sort direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Params holds the raw string-valued query parameters of a request
type Params map[string][]string

// Get returns the first trimmed value for name, or "" when absent
func (p Params) Get(name string) string {
	values := p[name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// Values returns all non-empty trimmed values for name
func (p Params) Values(name string) []string {
	var out []string
	for _, v := range p[name] {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether name was supplied with a non-empty value
func (p Params) Has(name string) bool {
	return p.Get(name) != ""
}

// Spec is the normalized representation of a request's query parameters.
// It is built per request and discarded after the response.
type Spec struct {
	Filters       Params
	SortBy        string
	SortDirection Direction
	Page          int
	Size          int
	Metadata      string // value of the reserved "data" parameter, "" for list requests
}

// ParseSpec normalizes raw query values into a Spec. Pagination and sort
// inputs are never rejected here: malformed numbers behave as unset and are
// later clamped by the pager, and unknown sort fields fall back to the
// entity default.
func ParseSpec(values url.Values) Spec {
	params := Params(values)

	spec := Spec{
		Filters:       params,
		SortBy:        params.Get(ParamSortBy),
		SortDirection: ParseDirection(params.Get(ParamSortDirection)),
		Metadata:      params.Get(ParamData),
	}

	if page, err := strconv.Atoi(params.Get(ParamPage)); err == nil {
		spec.Page = page
	}
	if size, err := strconv.Atoi(params.Get(ParamSize)); err == nil {
		spec.Size = size
	}

	return spec
}

// ParseDirection interprets a sortDirection value case-insensitively,
// defaulting to ascending
func ParseDirection(raw string) Direction {
	if strings.EqualFold(raw, string(Desc)) {
		return Desc
	}
	return Asc
}
