package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triptracker/backend/internal/domain"
)

func TestNewTripFilter_defaults(t *testing.T) {
	f := domain.NewTripFilter(domain.RawTripFilter{})

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, domain.DefaultTripPerPage, f.PerPage)
	assert.Nil(t, f.Keyword)
	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
	assert.Nil(t, f.OwnerID)
	assert.Equal(t, 0, f.Offset())
}

func TestNewTripFilter_coercesPagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
	}{
		{"explicit values", "3", "25", 3, 25},
		{"zero page", "0", "5", 1, 5},
		{"negative page", "-2", "5", 1, 5},
		{"garbage page", "abc", "5", 1, 5},
		{"zero perPage means unbounded", "2", "0", 2, 0},
		{"negative perPage", "1", "-1", 1, domain.DefaultTripPerPage},
		{"garbage perPage", "1", "lots", 1, domain.DefaultTripPerPage},
		{"padded numbers", " 4 ", " 7 ", 4, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := domain.NewTripFilter(domain.RawTripFilter{Page: tc.page, PerPage: tc.perPage})
			assert.Equal(t, tc.wantPage, f.Page)
			assert.Equal(t, tc.wantPerPage, f.PerPage)
		})
	}
}

func TestNewTripFilter_keyword(t *testing.T) {
	f := domain.NewTripFilter(domain.RawTripFilter{Keyword: "  par "})
	require.NotNil(t, f.Keyword)
	assert.Equal(t, "par", *f.Keyword)

	blank := domain.NewTripFilter(domain.RawTripFilter{Keyword: "   "})
	assert.Nil(t, blank.Keyword, "whitespace-only keyword imposes no predicate")
}

func TestNewTripFilter_dates(t *testing.T) {
	f := domain.NewTripFilter(domain.RawTripFilter{
		StartDate: "2024-01-10",
		EndDate:   "2024-03-01T15:04:05Z",
	})

	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.True(t, f.StartDate.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, f.EndDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		"timestamps are truncated to their calendar day")
}

func TestNewTripFilter_malformedDateDropped(t *testing.T) {
	f := domain.NewTripFilter(domain.RawTripFilter{StartDate: "next tuesday", EndDate: "2024-13-45"})

	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
}

func TestNewTripFilter_owner(t *testing.T) {
	id := uuid.New()
	f := domain.NewTripFilter(domain.RawTripFilter{OwnerID: id.String()})
	require.NotNil(t, f.OwnerID)
	assert.Equal(t, id, *f.OwnerID)

	bad := domain.NewTripFilter(domain.RawTripFilter{OwnerID: "not-a-uuid"})
	require.NotNil(t, bad.OwnerID, "a malformed owner still restricts the listing")
	assert.Equal(t, uuid.Nil, *bad.OwnerID)
}

func TestTripFilter_WithOwner(t *testing.T) {
	base := domain.NewTripFilter(domain.RawTripFilter{OwnerID: uuid.NewString()})
	caller := uuid.New()

	f := base.WithOwner(caller)

	require.NotNil(t, f.OwnerID)
	assert.Equal(t, caller, *f.OwnerID)
}

func TestTripFilter_Offset(t *testing.T) {
	f := domain.NewTripFilter(domain.RawTripFilter{Page: "3", PerPage: "4"})
	assert.Equal(t, 8, f.Offset())

	unbounded := domain.NewTripFilter(domain.RawTripFilter{Page: "3", PerPage: "0"})
	assert.Equal(t, 0, unbounded.Offset())
	assert.True(t, unbounded.Unbounded())
}

func TestTripFilter_Offset_saturatesOnHugePage(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		perPage string
	}{
		{"max int page", "9223372036854775807", "10"},
		{"first page past max int", "922337203685477582", "10"},
		{"max page size", "2", "9223372036854775807"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := domain.NewTripFilter(domain.RawTripFilter{Page: tc.page, PerPage: tc.perPage})
			assert.Equal(t, math.MaxInt, f.Offset())
		})
	}

	f := domain.NewTripFilter(domain.RawTripFilter{Page: "922337203685477580", PerPage: "10"})
	assert.Equal(t, 9223372036854775790, f.Offset(), "largest exact product is kept")
}
