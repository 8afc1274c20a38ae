package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/render"
	"github.com/pkordes/triptracker/backend/internal/service"
)

const userNotFound = "user not found"

// Register handles POST /auth/register. New accounts are always REGULAR.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := s.users.Register(r.Context(), body.Email, body.Name, body.Password)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	s.issueToken(w, r, http.StatusCreated, u)
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := s.users.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	s.issueToken(w, r, http.StatusOK, u)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, u domain.User) {
	token, err := s.tokens.Generate(u)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	render.JSON(w, status, TokenResponse{Token: token, User: userToResponse(u)})
}

// GetProfile handles GET /users/profile.
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	u, err := s.users.GetByID(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	render.JSON(w, http.StatusOK, userToResponse(u))
}

// UpdateProfile handles PUT /users/profile. Callers may change their email
// and name but never their own role.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r)
	if !ok {
		return
	}
	var body UpdateUserRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Role != nil {
		render.Error(w, r, http.StatusForbidden, render.CodeForbidden, "role cannot be changed from the profile")
		return
	}
	u, err := s.users.Update(r.Context(), p.UserID, requestToUserPatch(body))
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	render.JSON(w, http.StatusOK, userToResponse(u))
}

// ListUsers handles GET /users.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &page); err != nil {
		render.Error(w, r, http.StatusBadRequest, render.CodeBadRequest, err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &limit); err != nil {
		render.Error(w, r, http.StatusBadRequest, render.CodeBadRequest, err.Error())
		return
	}

	params := domain.NewPaginationParams(page, limit)
	users, total, err := s.users.List(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}

	data := make([]User, len(users))
	for i, u := range users {
		data[i] = userToResponse(u)
	}
	render.JSON(w, http.StatusOK, UserList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateUser handles POST /users.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body CreateUserRequest
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := s.users.Create(r.Context(), service.NewUser{
		Email:    body.Email,
		Name:     body.Name,
		Password: body.Password,
		Role:     domain.Role(body.Role),
	})
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	render.JSON(w, http.StatusCreated, userToResponse(u))
}

// GetUser handles GET /users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		render.Error(w, r, http.StatusNotFound, render.CodeNotFound, userNotFound)
		return
	}
	u, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	render.JSON(w, http.StatusOK, userToResponse(u))
}

// UpdateUser handles PUT /users/{id}.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		render.Error(w, r, http.StatusNotFound, render.CodeNotFound, userNotFound)
		return
	}
	var body UpdateUserRequest
	if !decodeBody(w, r, &body) {
		return
	}
	u, err := s.users.Update(r.Context(), id, requestToUserPatch(body))
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	render.JSON(w, http.StatusOK, userToResponse(u))
}

// DeleteUser handles DELETE /users/{id}. The user's trips stay stored but
// drop out of every listing.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		render.Error(w, r, http.StatusNotFound, render.CodeNotFound, userNotFound)
		return
	}
	if err := s.users.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
