package pagination

import "math"

const (
	// DefaultPage is the page served when none is requested
	DefaultPage = 1

	// DefaultPageSize is the number of items per page when none is requested
	DefaultPageSize = 12
)

// Request identifies the page to serve.
type Request struct {
	Page     int
	PageSize int
}

// Normalize applies the defaults to non-positive values.
func (r Request) Normalize() Request {
	if r.Page <= 0 {
		r.Page = DefaultPage
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	return r
}

// Offset returns the index of the first item of the page, saturating at
// math.MaxInt for pages too far out to address.
func (r Request) Offset() int {
	r = r.Normalize()
	if r.Page-1 > math.MaxInt/r.PageSize {
		return math.MaxInt
	}
	return (r.Page - 1) * r.PageSize
}

// Page is one slice of a source collection.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// TotalPages returns ceil(total/size), or 0 when there is nothing to page.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// Paginate returns the requested page of items.
// Pages past the end are empty. The returned Items share the backing array of
// items and must not be modified.
func Paginate[T any](items []T, req Request) Page[T] {
	req = req.Normalize()
	total := len(items)

	start := total
	if req.Page-1 <= total/req.PageSize {
		start = min((req.Page-1)*req.PageSize, total)
	}
	end := start + min(req.PageSize, total-start)

	return Page[T]{
		Items:      items[start:end:end],
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: total,
		TotalPages: TotalPages(total, req.PageSize),
	}
}
