// Package domain contains the core data types for the trip tracker.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the persisted shape of a planned journey.
// Every trip has exactly one owning user; OwnerID is stamped at creation
// and never changes afterwards.
type Trip struct {
	ID          uuid.UUID
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Comment     string // empty when the owner left no comment
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TripView is a trip joined to its owner, as returned by get and list operations.
// Only the owner fields safe to expose are inlined.
type TripView struct {
	ID          uuid.UUID
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Comment     string
	CreatedAt   time.Time
	Owner       UserView
}

// Trip returns the persisted shape of v. UpdatedAt is left zero.
func (v TripView) Trip() Trip {
	return Trip{
		ID:          v.ID,
		Destination: v.Destination,
		StartDate:   v.StartDate,
		EndDate:     v.EndDate,
		Comment:     v.Comment,
		OwnerID:     v.Owner.ID,
		CreatedAt:   v.CreatedAt,
	}
}

// TripPatch carries the mutable fields of an update. Nil fields are left unchanged.
// Owner, ID, and CreatedAt are deliberately absent.
type TripPatch struct {
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	Comment     *string
}

// Apply returns a copy of t with every non-nil patch field applied.
func (p TripPatch) Apply(t Trip) Trip {
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Comment != nil {
		t.Comment = *p.Comment
	}
	return t
}
