package query

// Page is the paginated envelope returned by list requests. All metadata is
// computed from the filtered collection, never persisted.
type Page[T any] struct {
	Content          []*T `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	NumberOfElements int  `json:"numberOfElements"`
}

// Pager normalizes page/size parameters. Defaults and caps come from
// configuration and are threaded in explicitly at construction.
type Pager struct {
	DefaultSize int
	MaxSize     int
}

// Normalize clamps page to >= 0 and size to [1, MaxSize], substituting the
// configured default for missing or non-positive sizes
func (p Pager) Normalize(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = p.DefaultSize
	}
	if size > p.MaxSize {
		size = p.MaxSize
	}
	return page, size
}

// Paginate slices items into the requested page. page and size must already
// be normalized.
func Paginate[T any](items []*T, page, size int) *Page[T] {
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	offset := page * size
	if offset > total {
		offset = total
	}
	end := offset + size
	if end > total {
		end = total
	}

	return &Page[T]{
		Content:          items[offset:end],
		TotalElements:    total,
		TotalPages:       totalPages,
		First:            page == 0,
		Last:             page >= totalPages-1,
		NumberOfElements: end - offset,
	}
}
