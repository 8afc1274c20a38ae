package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTripPerPage is the page size used when perPage is absent or negative.
	DefaultTripPerPage = 10

	dateLayout = "2006-01-02"
)

// RawTripFilter holds listing parameters exactly as a caller supplied them.
// Every field is optional; empty means absent.
type RawTripFilter struct {
	Page      string
	PerPage   string
	Keyword   string
	StartDate string
	EndDate   string
	OwnerID   string
}

// TripFilter is the normalized input to the listing engine. Defaults have been
// applied, so Page >= 1 and PerPage >= 0 always hold. Optional constraints are
// nil when absent; a non-nil field always imposes a predicate.
type TripFilter struct {
	Page int
	// PerPage is the page size. Zero means "return every match after the offset".
	PerPage int

	Keyword   *string
	StartDate *time.Time // inclusive lower bound on the trip's start date
	EndDate   *time.Time // inclusive upper bound on the trip's start date
	OwnerID   *uuid.UUID
}

// NewTripFilter normalizes raw listing parameters. It never fails:
//   - page below 1 or unparseable becomes 1
//   - perPage negative or unparseable becomes DefaultTripPerPage
//   - a blank keyword is dropped
//   - an unparseable date bound is dropped
//   - a malformed owner id is kept as uuid.Nil, which matches no trips
func NewTripFilter(raw RawTripFilter) TripFilter {
	f := TripFilter{Page: 1, PerPage: DefaultTripPerPage}

	if n, err := strconv.Atoi(strings.TrimSpace(raw.Page)); err == nil && n >= 1 {
		f.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw.PerPage)); err == nil && n >= 0 {
		f.PerPage = n
	}
	if kw := strings.TrimSpace(raw.Keyword); kw != "" {
		f.Keyword = &kw
	}
	f.StartDate = parseDate(raw.StartDate)
	f.EndDate = parseDate(raw.EndDate)

	if s := strings.TrimSpace(raw.OwnerID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			id = uuid.Nil
		}
		f.OwnerID = &id
	}
	return f
}

// WithOwner returns a copy of f restricted to trips owned by id.
func (f TripFilter) WithOwner(id uuid.UUID) TripFilter {
	f.OwnerID = &id
	return f
}

// Offset is the number of sorted matches skipped before the page starts.
// It never goes negative, however large Page is.
func (f TripFilter) Offset() int {
	return windowOffset(f.Page, f.PerPage)
}

// Unbounded reports whether the page extends to the end of the result set.
func (f TripFilter) Unbounded() bool {
	return f.PerPage == 0
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// UTC calendar day it falls on, or nil when s is blank or unparseable.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
	}
	d := TruncateToDate(t)
	return &d
}

// TruncateToDate drops the time-of-day component of t, in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
