// Package pagination provides the shared page/offset math used by the catalog
// and review list queries.
package pagination

// DefaultPageSize is used when a caller does not specify a page size.
const DefaultPageSize = 10

// MaxPageSize is the upper bound the request layer enforces on page_size.
const MaxPageSize = 100

// Pagination is a transient value object describing one page of an ordered
// result set. It is never persisted; totals are filled in after the matching
// row count is known.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// New returns a Pagination for the given page and page size, substituting
// defaults for non-positive values. Bounds checking beyond that is the
// request layer's job.
func New(page, pageSize int) *Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pagination{Page: page, PageSize: pageSize}
}

// Offset returns the SQL OFFSET for this page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the SQL LIMIT for this page.
func (p *Pagination) Limit() int {
	return p.PageSize
}

// SetTotal records the total row count and derives the total page count.
// A non-positive page size yields one page rather than a divide by zero.
func (p *Pagination) SetTotal(totalCount int) *Pagination {
	p.TotalCount = totalCount
	if p.PageSize > 0 {
		p.TotalPages = (totalCount + p.PageSize - 1) / p.PageSize
	} else {
		p.TotalPages = 1
	}
	return p
}
