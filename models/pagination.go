package models

// MaxPage bounds the requested page number.
const MaxPage = 1_000_000

// PagingDefaults are the configured bounds for paginated listings.
type PagingDefaults struct {
	DefaultLimit int
	MaxLimit     int
}

// PageRequest is a requested page. Zero values are replaced by defaults.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize fills in defaults and clamps the limit.
func (d PagingDefaults) Normalize(req PageRequest) PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Page > MaxPage {
		req.Page = MaxPage
	}
	if req.Limit < 1 {
		req.Limit = d.DefaultLimit
	}
	if req.Limit < 1 {
		req.Limit = 10
	}
	if d.MaxLimit > 0 && req.Limit > d.MaxLimit {
		req.Limit = d.MaxLimit
	}
	return req
}

// Skip is the number of documents before the page.
func (r PageRequest) Skip() int64 {
	if r.Page < 1 {
		return 0
	}
	return int64(r.Page-1) * int64(r.Limit)
}

// Pagination describes a returned page.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Page is a paginated listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPage builds a page envelope. A nil items slice is returned as empty.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Limit > 0 {
		pages = int((total + int64(req.Limit) - 1) / int64(req.Limit))
	}
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Total:      total,
			Page:       req.Page,
			Limit:      req.Limit,
			TotalPages: pages,
		},
	}
}
