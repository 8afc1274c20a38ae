package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's privilege level. Authorization decisions live in the auth
// package; the listing engine never looks at roles.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleRegular Role = "REGULAR"
)

// Roles lists every role from most to least privileged.
var Roles = []Role{RoleAdmin, RoleManager, RoleRegular}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleRegular:
		return true
	}
	return false
}

// User is an account that owns trips.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View returns the minimal projection of u that is inlined into trip results.
func (u User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserView is the owner projection embedded in every TripView.
type UserView struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// UserPatch carries the mutable fields of a user update. Nil fields are left unchanged.
type UserPatch struct {
	Email *string
	Name  *string
	Role  *Role
}

// Apply returns a copy of u with every non-nil patch field applied.
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}
