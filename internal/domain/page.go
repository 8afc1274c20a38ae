package domain

import "math"

// PaginationParams carries page/limit values from the HTTP layer to the repo layer
// for the user listing. Page is 1-indexed. Limit is capped at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional HTTP query params.
// Nil pointers fall back to sane defaults (page=1, limit=20).
// The limit is capped at 100 to prevent runaway queries.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return windowOffset(p.Page, p.Limit)
}

// windowOffset is (page-1)*size, saturating at math.MaxInt instead of
// wrapping negative for huge page numbers.
func windowOffset(page, size int) int {
	if page <= 1 || size <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (page - 1) * size
}

// TripPage is one window of a filtered, sorted trip listing.
// Total counts every match of the filter, independent of the window.
type TripPage struct {
	Trips      []TripView
	Total      int64
	Page       int
	PerPage    int
	TotalPages int
}

// NewTripPage assembles a page from the rows the engine returned and the
// filter-consistent total. Trips is never nil.
func NewTripPage(trips []TripView, total int64, f TripFilter) TripPage {
	if trips == nil {
		trips = []TripView{}
	}
	return TripPage{
		Trips:      trips,
		Total:      total,
		Page:       f.Page,
		PerPage:    f.PerPage,
		TotalPages: TotalPages(total, f.PerPage),
	}
}

// TotalPages is ceil(total/perPage). An unbounded listing (perPage 0) is a
// single page.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
