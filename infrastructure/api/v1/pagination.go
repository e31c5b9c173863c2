package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/repository"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
)

// Page size bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams is a parsed page/page_size pair.
type PaginationParams struct {
	page     int
	pageSize int
}

// NewPaginationParams returns the first page at the default size.
func NewPaginationParams() PaginationParams {
	return PaginationParams{page: 1, pageSize: DefaultPageSize}
}

// ParsePagination reads page and page_size from the query string. Invalid
// values fall back to the defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request) PaginationParams {
	q := r.URL.Query()
	params := NewPaginationParams()
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		params = params.WithPage(n)
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil {
		params = params.WithPageSize(n)
	}
	return params
}

// Page returns the 1-based page number.
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the page size.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Offset returns the number of rows to skip.
func (p PaginationParams) Offset() int { return (p.page - 1) * p.pageSize }

// WithPage returns a copy on the given page.
func (p PaginationParams) WithPage(page int) PaginationParams {
	p.page = max(page, 1)
	return p
}

// WithPageSize returns a copy with the given size.
func (p PaginationParams) WithPageSize(size int) PaginationParams {
	if size < 1 {
		size = DefaultPageSize
	}
	p.pageSize = min(size, MaxPageSize)
	return p
}

// Options returns the matching repository options.
func (p PaginationParams) Options() []repository.Option {
	return repository.WithPagination(p.pageSize, p.Offset())
}

// TotalPages returns the number of pages needed for total items.
func (p PaginationParams) TotalPages(total int64) int {
	if p.pageSize < 1 {
		return 0
	}
	return int((total + int64(p.pageSize) - 1) / int64(p.pageSize))
}

// PaginationMeta builds the meta object of a paginated list document.
func PaginationMeta(params PaginationParams, total int64) jsonapi.Meta {
	return jsonapi.Meta{
		"page":        params.Page(),
		"page_size":   params.PageSize(),
		"total_count": total,
		"total_pages": params.TotalPages(total),
	}
}

// PaginationLinks builds self/first/last/prev/next links from the request URL.
func PaginationLinks(r *http.Request, params PaginationParams, total int64) *jsonapi.Links {
	pages := params.TotalPages(total)
	link := func(page int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(params.PageSize()))
		return fmt.Sprintf("%s?%s", r.URL.Path, q.Encode())
	}

	links := &jsonapi.Links{Self: link(params.Page()), First: link(1)}
	if pages > 0 {
		links.Last = link(pages)
	}
	if params.Page() > 1 {
		links.Prev = link(params.Page() - 1)
	}
	if params.Page() < pages {
		links.Next = link(params.Page() + 1)
	}
	return links
}
