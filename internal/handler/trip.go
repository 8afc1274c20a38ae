package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/triptracker/backend/internal/auth"
	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/render"
)

const tripNotFound = "trip not found"

// ListTrips handles GET /trips (ADMIN only).
// Supports ?page=, ?perPage=, ?keyword=, ?startdate=, ?enddate= and ?userId=.
// Unparseable values are coerced or dropped by domain.NewTripFilter, never rejected.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	raw, err := bindTripQuery(r.URL.Query(), true)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, render.CodeBadRequest, err.Error())
		return
	}
	s.listTrips(w, r, domain.NewTripFilter(raw))
}

// ListOwnedTrips handles GET /trips/owned. The owner filter is always the caller.
func (s *Server) ListOwnedTrips(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	raw, err := bindTripQuery(r.URL.Query(), false)
	if err != nil {
		render.Error(w, r, http.StatusBadRequest, render.CodeBadRequest, err.Error())
		return
	}
	s.listTrips(w, r, domain.NewTripFilter(raw).WithOwner(p.UserID))
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request, f domain.TripFilter) {
	page, err := s.trips.List(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	render.JSON(w, http.StatusOK, tripPageToResponse(page))
}

// CreateTrip handles POST /trips. The caller becomes the owner.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body CreateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(body), p.UserID)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	render.JSON(w, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.loadTrip(w, r)
	if !ok {
		return
	}
	render.JSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.loadTrip(w, r)
	if !ok {
		return
	}
	var body UpdateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), trip.ID, requestToTripPatch(body))
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	render.JSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.loadTrip(w, r)
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), trip.ID); err != nil {
		s.writeError(w, r, err, tripNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadTrip resolves the {id} path parameter to a trip the caller may act on:
// their own, or any trip when their role holds trips/manage_any.
// A malformed id is reported as not found.
func (s *Server) loadTrip(w http.ResponseWriter, r *http.Request) (domain.TripView, bool) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return domain.TripView{}, false
	}
	id, ok := pathID(r)
	if !ok {
		render.Error(w, r, http.StatusNotFound, render.CodeNotFound, tripNotFound)
		return domain.TripView{}, false
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tripNotFound)
		return domain.TripView{}, false
	}
	if trip.Owner.ID != p.UserID && !s.authz.Allowed(p.Role, auth.ResourceTrips, auth.ActionManageAny) {
		render.Error(w, r, http.StatusForbidden, render.CodeForbidden, "trip belongs to another user")
		return domain.TripView{}, false
	}
	return trip, true
}

type queryParam struct {
	name string
	dest *string
}

// bindTripQuery reads the listing parameters as raw strings. userId is only
// honoured on the admin listing.
func bindTripQuery(q url.Values, withOwner bool) (domain.RawTripFilter, error) {
	var raw domain.RawTripFilter
	params := []queryParam{
		{"page", &raw.Page},
		{"perPage", &raw.PerPage},
		{"keyword", &raw.Keyword},
		{"startdate", &raw.StartDate},
		{"enddate", &raw.EndDate},
	}
	if withOwner {
		params = append(params, queryParam{"userId", &raw.OwnerID})
	}
	for _, p := range params {
		var v *string
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, &v); err != nil {
			return domain.RawTripFilter{}, err
		}
		if v != nil {
			*p.dest = *v
		}
	}
	return raw, nil
}

// pathID parses the {id} path parameter.
func pathID(r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	return id, err == nil
}

// requirePrincipal returns the authenticated caller, writing a 401 when the
// route was mounted without authentication.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		render.Error(w, r, http.StatusUnauthorized, render.CodeUnauthorized, auth.ErrMissingToken.Error())
	}
	return p, ok
}
