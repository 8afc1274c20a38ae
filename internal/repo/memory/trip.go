package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
)

// TripRepo is the in-memory repo.TripRepo.
type TripRepo struct {
	s *Store
}

var _ repo.TripRepo = (*TripRepo)(nil)

func (r *TripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	trip.ID = uuid.New()
	trip.StartDate = domain.TruncateToDate(trip.StartDate)
	trip.EndDate = domain.TruncateToDate(trip.EndDate)
	trip.CreatedAt = now
	trip.UpdatedAt = now
	r.s.seq++
	r.s.trips[trip.ID] = tripRecord{trip: trip, seq: r.s.seq}
	return trip, nil
}

func (r *TripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.TripView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.trips[id]
	if !ok {
		return domain.TripView{}, fmt.Errorf("memory.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	v, ok := r.joinLocked(rec.trip)
	if !ok {
		return domain.TripView{}, fmt.Errorf("memory.TripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return v, nil
}

func (r *TripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.trips[trip.ID]
	if !ok {
		return domain.Trip{}, fmt.Errorf("memory.TripRepo.Update: %w", domain.ErrNotFound)
	}
	rec.trip.Destination = trip.Destination
	rec.trip.StartDate = domain.TruncateToDate(trip.StartDate)
	rec.trip.EndDate = domain.TruncateToDate(trip.EndDate)
	rec.trip.Comment = trip.Comment
	rec.trip.UpdatedAt = r.s.now()
	r.s.trips[trip.ID] = rec
	return rec.trip, nil
}

func (r *TripRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.trips[id]; !ok {
		return fmt.Errorf("memory.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	delete(r.s.trips, id)
	return nil
}

// List runs join, match, sort, and window over a snapshot of the store.
func (r *TripRepo) List(_ context.Context, f domain.TripFilter) ([]domain.TripView, error) {
	r.s.mu.RLock()
	rows := r.matchLocked(f)
	r.s.mu.RUnlock()

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].less(rows[j]) })

	start := min(f.Offset(), len(rows))
	end := len(rows)
	if !f.Unbounded() {
		end = min(start+f.PerPage, len(rows))
	}

	out := make([]domain.TripView, 0, end-start)
	for _, row := range rows[start:end] {
		out = append(out, row.view)
	}
	return out, nil
}

// Count runs join and match only.
func (r *TripRepo) Count(_ context.Context, f domain.TripFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.matchLocked(f))), nil
}

type joinedRow struct {
	view domain.TripView
	seq  uint64
}

func (a joinedRow) less(b joinedRow) bool {
	if !a.view.StartDate.Equal(b.view.StartDate) {
		return a.view.StartDate.Before(b.view.StartDate)
	}
	if !a.view.CreatedAt.Equal(b.view.CreatedAt) {
		return a.view.CreatedAt.Before(b.view.CreatedAt)
	}
	return a.seq < b.seq
}

// matchLocked is the join and match stages shared by List and Count.
func (r *TripRepo) matchLocked(f domain.TripFilter) []joinedRow {
	var rows []joinedRow
	for _, rec := range r.s.trips {
		v, ok := r.joinLocked(rec.trip)
		if !ok || !tripMatches(f, v) {
			continue
		}
		rows = append(rows, joinedRow{view: v, seq: rec.seq})
	}
	return rows
}

func (r *TripRepo) joinLocked(t domain.Trip) (domain.TripView, bool) {
	owner, ok := r.s.users[t.OwnerID]
	if !ok {
		return domain.TripView{}, false
	}
	return domain.TripView{
		ID:          t.ID,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Comment:     t.Comment,
		CreatedAt:   t.CreatedAt,
		Owner:       owner.View(),
	}, true
}

// tripMatches is the in-memory counterpart of the Postgres match stage.
func tripMatches(f domain.TripFilter, v domain.TripView) bool {
	if f.OwnerID != nil && v.Owner.ID != *f.OwnerID {
		return false
	}
	if f.Keyword != nil {
		// ILIKE compares lower() of both sides; ToLower is the collation-free
		// equivalent, so locale-specific folds can differ from Postgres.
		kw := strings.ToLower(*f.Keyword)
		if !strings.Contains(strings.ToLower(v.Destination), kw) &&
			!strings.Contains(strings.ToLower(v.Comment), kw) {
			return false
		}
	}
	if f.StartDate != nil && v.StartDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && v.StartDate.After(*f.EndDate) {
		return false
	}
	return true
}
