package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/handler"
)

func TestExportTrips_JSON_RegularScopedToSelf(t *testing.T) {
	var got domain.TripFilter
	exp := &mockExporter{
		export: func(_ context.Context, f domain.TripFilter) ([]domain.TripView, error) {
			got = f
			return []domain.TripView{tripFixture(regular.UserID)}, nil
		},
	}

	// userId is ignored for callers who may not list all trips.
	url := "/trips/export?keyword=rome&userId=" + uuid.NewString()
	rec := httptest.NewRecorder()
	newHTTPHandler(t, deps{export: exp}, regular).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, regular.UserID, *got.OwnerID)
	require.NotNil(t, got.Keyword)
	assert.Equal(t, "rome", *got.Keyword)

	var resp []handler.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}

func TestExportTrips_AdminSeesAll(t *testing.T) {
	var got domain.TripFilter
	exp := &mockExporter{
		export: func(_ context.Context, f domain.TripFilter) ([]domain.TripView, error) {
			got = f
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(t, deps{export: exp}, admin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.OwnerID)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestExportTrips_CSV(t *testing.T) {
	fixture := tripFixture(admin.UserID)
	fixture.Comment = "commas, and \"quotes\""
	exp := &mockExporter{
		export: func(_ context.Context, _ domain.TripFilter) ([]domain.TripView, error) {
			return []domain.TripView{fixture}, nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(t, deps{export: exp}, admin).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trips.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "trip_id", records[0][0])
	row := records[1]
	assert.Equal(t, fixture.ID.String(), row[0])
	assert.Equal(t, "Rome", row[1])
	assert.Equal(t, "2024-01-10", row[2])
	assert.Equal(t, "2024-01-20", row[3])
	assert.Equal(t, fixture.Comment, row[4])
	assert.Equal(t, "owner@example.com", row[7])
}

func TestExportTrips_CSV_HeaderOnlyWhenEmpty(t *testing.T) {
	exp := &mockExporter{
		export: func(_ context.Context, _ domain.TripFilter) ([]domain.TripView, error) { return nil, nil },
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(t, deps{export: exp}, regular).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
