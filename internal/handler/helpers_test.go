package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/handler"
	"github.com/pkordes/triptracker/backend/internal/render"
	"github.com/pkordes/triptracker/backend/internal/service"
)

// ---- mocks -----------------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	list    func(ctx context.Context, f domain.TripFilter) (domain.TripPage, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.TripView, error)
	create  func(ctx context.Context, trip domain.Trip, ownerID uuid.UUID) (domain.TripView, error)
	update  func(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.TripView, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripServicer) List(ctx context.Context, f domain.TripFilter) (domain.TripPage, error) {
	return m.list(ctx, f)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.TripView, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) Create(ctx context.Context, t domain.Trip, ownerID uuid.UUID) (domain.TripView, error) {
	return m.create(ctx, t, ownerID)
}
func (m *mockTripServicer) Update(ctx context.Context, id uuid.UUID, p domain.TripPatch) (domain.TripView, error) {
	return m.update(ctx, id, p)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockUserServicer is a test double for handler.UserServicer.
type mockUserServicer struct {
	register     func(ctx context.Context, email, name, password string) (domain.User, error)
	authenticate func(ctx context.Context, email, password string) (domain.User, error)
	create       func(ctx context.Context, in service.NewUser) (domain.User, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.User, error)
	list         func(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error)
	update       func(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserServicer) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	return m.register(ctx, email, name, password)
}
func (m *mockUserServicer) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	return m.authenticate(ctx, email, password)
}
func (m *mockUserServicer) Create(ctx context.Context, in service.NewUser) (domain.User, error) {
	return m.create(ctx, in)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error) {
	return m.list(ctx, p)
}
func (m *mockUserServicer) Update(ctx context.Context, id uuid.UUID, p domain.UserPatch) (domain.User, error) {
	return m.update(ctx, id, p)
}
func (m *mockUserServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

type mockExporter struct {
	export func(ctx context.Context, f domain.TripFilter) ([]domain.TripView, error)
}

func (m *mockExporter) Export(ctx context.Context, f domain.TripFilter) ([]domain.TripView, error) {
	return m.export(ctx, f)
}

type stubTokens struct{}

func (stubTokens) Generate(u domain.User) (string, error) { return "token-for-" + u.Email, nil }

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer = (*mockTripServicer)(nil)
	_ handler.UserServicer = (*mockUserServicer)(nil)
	_ handler.Exporter     = (*mockExporter)(nil)
	_ handler.TokenIssuer  = stubTokens{}
)

// ---- helpers ---------------------------------------------------------------

var (
	regular = auth.Principal{UserID: uuid.New(), Email: "reg@example.com", Role: domain.RoleRegular}
	manager = auth.Principal{UserID: uuid.New(), Email: "mgr@example.com", Role: domain.RoleManager}
	admin   = auth.Principal{UserID: uuid.New(), Email: "adm@example.com", Role: domain.RoleAdmin}
)

// denyAll stands in for authentication on routes that must not need it.
func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, r, http.StatusUnauthorized, render.CodeUnauthorized, "denied")
	})
}

// as authenticates every request as p.
func as(p auth.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

type deps struct {
	trips  handler.TripServicer
	users  handler.UserServicer
	export handler.Exporter
}

// newHTTPHandler wires a Server with the given mocks and the real role
// authorizer into the router, authenticated as caller. This mirrors how
// main.go wires it in production.
func newHTTPHandler(t *testing.T, d deps, caller auth.Principal) http.Handler {
	t.Helper()
	authz, err := auth.NewAuthorizer()
	require.NoError(t, err)
	srv := handler.NewServer(d.trips, d.users, d.export, stubTokens{}, authz, nil)
	return srv.Routes(as(caller))
}

func tripFixture(owner uuid.UUID) domain.TripView {
	return domain.TripView{
		ID:          uuid.New(),
		Destination: "Rome",
		StartDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Comment:     "pasta",
		CreatedAt:   time.Now().UTC(),
		Owner:       domain.UserView{ID: owner, Email: "owner@example.com", Name: "Owner"},
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, body *bytes.Buffer) render.ErrorDetail {
	t.Helper()
	var resp render.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}
