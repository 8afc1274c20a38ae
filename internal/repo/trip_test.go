package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
	"github.com/pkordes/triptracker/backend/testutil"
)

type testRepos struct {
	trips repo.TripRepo
	users repo.UserRepo
}

// newTestRepos returns repos sharing one rolled-back-on-cleanup transaction.
func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	tx := testutil.NewTx(t)
	return testRepos{trips: repo.NewTripRepo(tx), users: repo.NewUserRepo(tx)}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustCreateUser(t *testing.T, r testRepos, email string) domain.User {
	t.Helper()
	u, err := r.users.Create(context.Background(), domain.User{
		Email:        email,
		Name:         "Test " + email,
		Role:         domain.RoleRegular,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return u
}

func mustCreateTrip(t *testing.T, r testRepos, owner uuid.UUID, dest string, start time.Time) domain.Trip {
	t.Helper()
	tr, err := r.trips.Create(context.Background(), domain.Trip{
		Destination: dest,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 5),
		OwnerID:     owner,
	})
	require.NoError(t, err)
	return tr
}

func destinations(views []domain.TripView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Destination
	}
	return out
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r, "create@example.com")

	input := domain.Trip{
		Destination: "Lisbon",
		StartDate:   date(2025, 6, 1),
		EndDate:     date(2025, 6, 15),
		Comment:     "pastéis",
		OwnerID:     owner.ID,
	}
	got, err := r.trips.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Destination, got.Destination)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(input.EndDate), "EndDate mismatch")
	assert.Equal(t, input.Comment, got.Comment)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestTripRepo_GetByID(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r, "get@example.com")
	created := mustCreateTrip(t, r, owner.ID, "Rome", date(2024, 1, 10))

	got, err := r.trips.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, owner.View(), got.Owner)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.trips.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_GetByID_OrphanedIsNotFound(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r, "orphan@example.com")
	created := mustCreateTrip(t, r, owner.ID, "Rome", date(2024, 1, 10))
	require.NoError(t, r.users.Delete(ctx, owner.ID))

	_, err := r.trips.GetByID(ctx, created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Update_KeepsOwner(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r, "update@example.com")
	other := mustCreateUser(t, r, "other@example.com")
	created := mustCreateTrip(t, r, owner.ID, "Rome", date(2024, 1, 10))

	created.Destination = "Naples"
	created.OwnerID = other.ID // must be ignored
	updated, err := r.trips.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Naples", updated.Destination)
	assert.Equal(t, owner.ID, updated.OwnerID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.trips.Update(context.Background(), domain.Trip{ID: uuid.New(), StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 2)})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	owner := mustCreateUser(t, r, "delete@example.com")
	created := mustCreateTrip(t, r, owner.ID, "Rome", date(2024, 1, 10))

	require.NoError(t, r.trips.Delete(ctx, created.ID))

	_, err := r.trips.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after delete")

	assert.ErrorIs(t, r.trips.Delete(ctx, created.ID), domain.ErrNotFound)
}

// seedListing creates the three-trip scenario plus a second owner's trip.
func seedListing(t *testing.T, r testRepos) (alice, bob domain.User) {
	t.Helper()
	alice = mustCreateUser(t, r, "alice@example.com")
	bob = mustCreateUser(t, r, "bob@example.com")
	mustCreateTrip(t, r, alice.ID, "Oslo", date(2024, 3, 1))
	mustCreateTrip(t, r, alice.ID, "Rome", date(2024, 1, 10))
	mustCreateTrip(t, r, alice.ID, "Paris trip", date(2024, 2, 5))
	mustCreateTrip(t, r, bob.ID, "Berlin", date(2024, 4, 20))
	return alice, bob
}

func TestTripRepo_List_PaginatesSortedByStartDate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice, _ := seedListing(t, r)

	page1 := domain.NewTripFilter(domain.RawTripFilter{Page: "1", PerPage: "2"}).WithOwner(alice.ID)
	got, err := r.trips.List(ctx, page1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Paris trip"}, destinations(got))

	page2 := domain.NewTripFilter(domain.RawTripFilter{Page: "2", PerPage: "2"}).WithOwner(alice.ID)
	got, err = r.trips.List(ctx, page2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oslo"}, destinations(got))

	total, err := r.trips.Count(ctx, page2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestTripRepo_List_HugePageIsEmpty(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice, _ := seedListing(t, r)

	f := domain.NewTripFilter(domain.RawTripFilter{Page: "9223372036854775807", PerPage: "10"}).WithOwner(alice.ID)
	got, err := r.trips.List(ctx, f)
	require.NoError(t, err, "offset must stay a valid OFFSET")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	total, err := r.trips.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestTripRepo_List_Keyword(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice, _ := seedListing(t, r)

	f := domain.NewTripFilter(domain.RawTripFilter{Keyword: "PAR"}).WithOwner(alice.ID)
	got, err := r.trips.List(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris trip"}, destinations(got))

	total, err := r.trips.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestTripRepo_List_DateBoundsInclusive(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice, _ := seedListing(t, r)

	f := domain.NewTripFilter(domain.RawTripFilter{StartDate: "2024-01-10", EndDate: "2024-02-05", PerPage: "0"}).
		WithOwner(alice.ID)
	got, err := r.trips.List(ctx, f)

	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Paris trip"}, destinations(got))
}

func TestTripRepo_List_OrphanedTripsExcludedFromPageAndCount(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	_, bob := seedListing(t, r)
	require.NoError(t, r.users.Delete(ctx, bob.ID))

	f := domain.NewTripFilter(domain.RawTripFilter{Keyword: "berlin", PerPage: "0"})
	got, err := r.trips.List(ctx, f)
	require.NoError(t, err)
	assert.Empty(t, got)

	total, err := r.trips.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestTripRepo_List_OwnerFilter(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	_, bob := seedListing(t, r)

	f := domain.NewTripFilter(domain.RawTripFilter{PerPage: "0"}).WithOwner(bob.ID)
	got, err := r.trips.List(ctx, f)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, bob.ID, got[0].Owner.ID)
	assert.Equal(t, bob.Email, got[0].Owner.Email)
}
