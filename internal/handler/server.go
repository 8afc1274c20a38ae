// Package handler implements the HTTP handlers for the trip tracker API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, user.go, ...) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/middleware"
	"github.com/pkordes/triptracker/backend/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	List(ctx context.Context, f domain.TripFilter) (domain.TripPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TripView, error)
	Create(ctx context.Context, trip domain.Trip, ownerID uuid.UUID) (domain.TripView, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.TripView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserServicer defines the account operations the auth and user handlers depend on.
type UserServicer interface {
	Register(ctx context.Context, email, name, password string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	Create(ctx context.Context, in service.NewUser) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Exporter returns every trip matching a filter, ignoring pagination.
type Exporter interface {
	Export(ctx context.Context, f domain.TripFilter) ([]domain.TripView, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Generate(user domain.User) (string, error)
}

// Server holds the dependencies of every endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips  TripServicer
	users  UserServicer
	export Exporter
	tokens TokenIssuer
	authz  middleware.Authorizer
	log    *slog.Logger

	authThrottle func(http.Handler) http.Handler
}

// NewServer constructs the Server with all its dependencies. A nil logger
// falls back to slog.Default.
func NewServer(trips TripServicer, users UserServicer, export Exporter, tokens TokenIssuer, authz middleware.Authorizer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trips: trips, users: users, export: export, tokens: tokens, authz: authz, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, nil)
}

// WithAuthThrottle wraps the /auth endpoints in mw, typically a rate limiter.
func (s *Server) WithAuthThrottle(mw func(http.Handler) http.Handler) *Server {
	s.authThrottle = mw
	return s
}

// Routes mounts every endpoint on a new chi router. authn must place an
// auth.Principal in the request context; every route except health and the
// /auth endpoints runs behind it.
func (s *Server) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Group(func(r chi.Router) {
		if s.authThrottle != nil {
			r.Use(s.authThrottle)
		}
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/trips", func(r chi.Router) {
			r.With(middleware.RequirePermission(s.authz, auth.ResourceTrips, auth.ActionListAll)).
				Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Get("/owned", s.ListOwnedTrips)
			r.Get("/export", s.ExportTrips)
			r.Get("/{id}", s.GetTrip)
			r.Put("/{id}", s.UpdateTrip)
			r.Delete("/{id}", s.DeleteTrip)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile", s.GetProfile)
			r.Put("/profile", s.UpdateProfile)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(s.authz, auth.ResourceUsers, auth.ActionManage))
				r.Get("/", s.ListUsers)
				r.Post("/", s.CreateUser)
				r.Get("/{id}", s.GetUser)
				r.Put("/{id}", s.UpdateUser)
				r.Delete("/{id}", s.DeleteUser)
			})
		})
	})

	return r
}
