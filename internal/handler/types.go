package handler

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/triptracker/backend/internal/domain"
)

// Wire types. Field names follow openapi/openapi.yaml.

// Trip is a trip joined to its owner.
type Trip struct {
	ID          openapi_types.UUID `json:"id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startdate"`
	EndDate     openapi_types.Date `json:"enddate"`
	Comment     string             `json:"comment"`
	CreatedAt   time.Time          `json:"createdAt"`
	User        TripOwner          `json:"user"`
}

// TripOwner is the owner projection inlined in every Trip.
type TripOwner struct {
	ID    openapi_types.UUID `json:"id"`
	Email string             `json:"email"`
	Name  string             `json:"name"`
}

// TripList is one page of a trip listing.
type TripList struct {
	Trips      []Trip `json:"trips"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalPages int    `json:"totalPages"`
}

// CreateTripRequest is the body of POST /trips. Missing dates are reported
// by service validation.
type CreateTripRequest struct {
	Destination string              `json:"destination"`
	StartDate   *openapi_types.Date `json:"startdate"`
	EndDate     *openapi_types.Date `json:"enddate"`
	Comment     *string             `json:"comment,omitempty"`
}

// UpdateTripRequest is the body of PUT /trips/{id}. Absent fields are left
// unchanged; an explicit null comment clears it.
type UpdateTripRequest struct {
	Destination *string                   `json:"destination,omitempty"`
	StartDate   *openapi_types.Date       `json:"startdate,omitempty"`
	EndDate     *openapi_types.Date       `json:"enddate,omitempty"`
	Comment     nullable.Nullable[string] `json:"comment,omitempty"`
}

// User is an account as returned to managers and to the account holder.
type User struct {
	ID        openapi_types.UUID `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Role      string             `json:"role"`
	CreatedAt time.Time          `json:"createdAt"`
}

// UserList is one page of the user listing.
type UserList struct {
	Data       []User     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the window of a UserList.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UpdateUserRequest is the body of PUT /users/{id} and PUT /users/profile.
type UpdateUserRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
	Role  *string `json:"role,omitempty"`
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(v domain.TripView) Trip {
	return Trip{
		ID:          v.ID,
		Destination: v.Destination,
		StartDate:   openapi_types.Date{Time: v.StartDate},
		EndDate:     openapi_types.Date{Time: v.EndDate},
		Comment:     v.Comment,
		CreatedAt:   v.CreatedAt,
		User: TripOwner{
			ID:    v.Owner.ID,
			Email: v.Owner.Email,
			Name:  v.Owner.Name,
		},
	}
}

func tripPageToResponse(p domain.TripPage) TripList {
	trips := make([]Trip, len(p.Trips))
	for i, v := range p.Trips {
		trips[i] = tripToResponse(v)
	}
	return TripList{
		Trips:      trips,
		Total:      p.Total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: p.TotalPages,
	}
}

func requestToTrip(body CreateTripRequest) domain.Trip {
	t := domain.Trip{Destination: body.Destination}
	if body.StartDate != nil {
		t.StartDate = body.StartDate.Time
	}
	if body.EndDate != nil {
		t.EndDate = body.EndDate.Time
	}
	if body.Comment != nil {
		t.Comment = *body.Comment
	}
	return t
}

func requestToTripPatch(body UpdateTripRequest) domain.TripPatch {
	p := domain.TripPatch{Destination: body.Destination}
	if body.StartDate != nil {
		sd := body.StartDate.Time
		p.StartDate = &sd
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		p.EndDate = &ed
	}
	if body.Comment.IsSpecified() {
		comment := ""
		if !body.Comment.IsNull() {
			comment = body.Comment.MustGet()
		}
		p.Comment = &comment
	}
	return p
}

func userToResponse(u domain.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func requestToUserPatch(body UpdateUserRequest) domain.UserPatch {
	p := domain.UserPatch{Email: body.Email, Name: body.Name}
	if body.Role != nil {
		role := domain.Role(*body.Role)
		p.Role = &role
	}
	return p
}
