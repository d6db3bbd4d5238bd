package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finledger/finledger-backend/internal/domain"
)

type record struct {
	ID     int
	Name   string
	Kind   string
	Amount decimal.Decimal
	Date   time.Time
}

func testRecords() []*record {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
	}
	return []*record{
		{ID: 1, Name: "Groceries", Kind: "EXPENSE", Amount: decimal.NewFromInt(120), Date: day(1)},
		{ID: 2, Name: "Salary", Kind: "INCOME", Amount: decimal.NewFromInt(3000), Date: day(5)},
		{ID: 3, Name: "Gas station", Kind: "EXPENSE", Amount: decimal.NewFromInt(60), Date: day(10)},
		{ID: 4, Name: "Freelance gig", Kind: "INCOME", Amount: decimal.NewFromInt(450), Date: day(20)},
	}
}

func testRegistry() *Registry[record] {
	return NewRegistry[record]().
		Search(func(r *record) string { return r.Name }).
		Exact("kind", func(r *record) string { return r.Kind }).
		DecimalRange("minAmount", "maxAmount", func(r *record) decimal.Decimal { return r.Amount }).
		DateRange("startDate", "endDate", func(r *record) time.Time { return r.Date })
}

func testSorter() *Sorter[record] {
	return NewSorter("id", func(a, b *record) bool { return a.ID < b.ID }).
		Field("amount", func(a, b *record) bool { return a.Amount.LessThan(b.Amount) }).
		Field("name", func(a, b *record) bool { return a.Name < b.Name })
}

func params(raw string) Params {
	values, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return Params(values)
}

func TestRegistry_NoParamsMatchesEverything(t *testing.T) {
	pred := testRegistry().Build(params(""))
	matched := Filter(testRecords(), pred)
	assert.Len(t, matched, 4)
}

func TestRegistry_UnknownParamsIgnored(t *testing.T) {
	pred := testRegistry().Build(params("color=blue&foo=bar"))
	matched := Filter(testRecords(), pred)
	assert.Len(t, matched, 4, "unknown parameters must not constrain the result")
}

func TestRegistry_ExactMembership(t *testing.T) {
	pred := testRegistry().Build(params("kind=INCOME"))
	matched := Filter(testRecords(), pred)
	require.Len(t, matched, 2)
	assert.Equal(t, "Salary", matched[0].Name)

	// Multi-valued parameters are OR-combined
	pred = testRegistry().Build(params("kind=INCOME&kind=EXPENSE"))
	assert.Len(t, Filter(testRecords(), pred), 4)
}

func TestRegistry_SearchCaseInsensitive(t *testing.T) {
	pred := testRegistry().Build(params("search=GAS"))
	matched := Filter(testRecords(), pred)
	require.Len(t, matched, 1)
	assert.Equal(t, "Gas station", matched[0].Name)
}

func TestRegistry_DecimalRange(t *testing.T) {
	pred := testRegistry().Build(params("minAmount=100&maxAmount=500"))
	matched := Filter(testRecords(), pred)
	require.Len(t, matched, 2)
	assert.Equal(t, "Groceries", matched[0].Name)
	assert.Equal(t, "Freelance gig", matched[1].Name)

	// Bounds are inclusive
	pred = testRegistry().Build(params("minAmount=60&maxAmount=60"))
	assert.Len(t, Filter(testRecords(), pred), 1)
}

func TestRegistry_InvertedRangeIsEmptyNotError(t *testing.T) {
	pred := testRegistry().Build(params("minAmount=100&maxAmount=50"))
	assert.Empty(t, Filter(testRecords(), pred))
}

func TestRegistry_DateRangeInclusive(t *testing.T) {
	pred := testRegistry().Build(params("startDate=2026-03-05&endDate=2026-03-10"))
	matched := Filter(testRecords(), pred)
	require.Len(t, matched, 2)
	assert.Equal(t, "Salary", matched[0].Name)
	assert.Equal(t, "Gas station", matched[1].Name, "date-only end bound covers the whole day")
}

func TestRegistry_FiltersAndCombined(t *testing.T) {
	pred := testRegistry().Build(params("kind=EXPENSE&minAmount=100"))
	matched := Filter(testRecords(), pred)
	require.Len(t, matched, 1)
	assert.Equal(t, "Groceries", matched[0].Name)
}

func TestSorter_UnknownFieldFallsBackToDefault(t *testing.T) {
	items := testRecords()
	testSorter().Apply(items, "doesNotExist", Asc)

	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, 4, items[3].ID)
}

func TestSorter_DescendingWithTieBreak(t *testing.T) {
	items := []*record{
		{ID: 3, Kind: "A"},
		{ID: 1, Kind: "A"},
		{ID: 2, Kind: "B"},
	}
	sorter := NewSorter("id", func(a, b *record) bool { return a.ID < b.ID }).
		Field("kind", func(a, b *record) bool { return a.Kind < b.Kind })

	sorter.Apply(items, "kind", Desc)

	// B first, then the A ties in identifier ascending order
	assert.Equal(t, 2, items[0].ID)
	assert.Equal(t, 1, items[1].ID)
	assert.Equal(t, 3, items[2].ID)
}

func TestSorter_AmountDescending(t *testing.T) {
	items := testRecords()
	testSorter().Apply(items, "amount", Desc)
	assert.Equal(t, "Salary", items[0].Name)
	assert.Equal(t, "Gas station", items[3].Name)
}

func TestPager_Normalize(t *testing.T) {
	pager := Pager{DefaultSize: 20, MaxSize: 100}

	tests := []struct {
		name               string
		page, size         int
		wantPage, wantSize int
	}{
		{"negative page clamps to zero", -1, 20, 0, 20},
		{"zero size takes default", 0, 0, 0, 20},
		{"negative size takes default", 2, -5, 2, 20},
		{"oversized clamps to max", 0, 500, 0, 100},
		{"in range untouched", 3, 50, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := pager.Normalize(tt.page, tt.size)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestPaginate_Metadata(t *testing.T) {
	items := testRecords()

	page := Paginate(items, 0, 3)
	assert.Equal(t, 4, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)
	assert.Equal(t, 3, page.NumberOfElements)

	page = Paginate(items, 1, 3)
	assert.False(t, page.First)
	assert.True(t, page.Last)
	assert.Equal(t, 1, page.NumberOfElements)
}

func TestPaginate_PastTheEnd(t *testing.T) {
	page := Paginate(testRecords(), 10, 20)
	assert.Empty(t, page.Content)
	assert.Equal(t, 4, page.TotalElements)
	assert.True(t, page.Last)
}

func TestPaginate_EmptyCollection(t *testing.T) {
	page := Paginate([]*record{}, 0, 20)
	assert.Equal(t, 0, page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func testResource() *Resource[record] {
	return &Resource[record]{
		Filters: testRegistry(),
		Sort:    testSorter(),
		Pager:   Pager{DefaultSize: 20, MaxSize: 100},
		Metadata: map[string]Aggregator[record]{
			"count": func(items []*record, _ Params) (interface{}, error) {
				return len(items), nil
			},
			"by-kind": func(items []*record, p Params) (interface{}, error) {
				kind, err := RequireParam(p, "kindId")
				if err != nil {
					return nil, err
				}
				n := 0
				for _, item := range items {
					if item.Kind == kind {
						n++
					}
				}
				return n, nil
			},
		},
	}
}

func TestResource_ListPath(t *testing.T) {
	spec := ParseSpec(url.Values{"sortBy": {"amount"}, "sortDirection": {"DESC"}})

	result, err := testResource().Execute(spec, testRecords())
	require.NoError(t, err)

	page, ok := result.(*Page[record])
	require.True(t, ok)
	assert.Equal(t, "Salary", page.Content[0].Name)
	assert.Equal(t, 4, page.TotalElements)
}

func TestResource_MetadataRunsOverFilteredData(t *testing.T) {
	spec := ParseSpec(url.Values{"data": {"count"}, "kind": {"INCOME"}})

	result, err := testResource().Execute(spec, testRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, result)
}

func TestResource_UnknownTokenRejected(t *testing.T) {
	spec := ParseSpec(url.Values{"data": {"unknown-token"}})

	_, err := testResource().Execute(spec, testRecords())
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.CodeUnsupportedMetadata, ve.Code)
	assert.Contains(t, ve.Message, "unknown-token")
}

func TestResource_MissingMandatoryParameter(t *testing.T) {
	spec := ParseSpec(url.Values{"data": {"by-kind"}})

	_, err := testResource().Execute(spec, testRecords())
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, domain.CodeMissingParameter, ve.Code)
	assert.Contains(t, err.Error(), "kindId")
}

func TestLimit_Clamping(t *testing.T) {
	assert.Equal(t, 10, Limit(params(""), 10, 50))
	assert.Equal(t, 5, Limit(params("limit=5"), 10, 50))
	assert.Equal(t, 50, Limit(params("limit=200"), 10, 50))
	assert.Equal(t, 10, Limit(params("limit=-1"), 10, 50))
	assert.Equal(t, 10, Limit(params("limit=abc"), 10, 50))
}

func TestParseSpec_Defaults(t *testing.T) {
	spec := ParseSpec(url.Values{})
	assert.Equal(t, 0, spec.Page)
	assert.Equal(t, 0, spec.Size)
	assert.Equal(t, Asc, spec.SortDirection)
	assert.Empty(t, spec.Metadata)

	spec = ParseSpec(url.Values{"page": {"garbage"}, "size": {"2"}, "sortDirection": {"desc"}})
	assert.Equal(t, 0, spec.Page, "malformed page behaves as unset")
	assert.Equal(t, 2, spec.Size)
	assert.Equal(t, Desc, spec.SortDirection)
}
