// Package service contains the business logic for the trip tracker.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/metrics"
	"github.com/pkordes/triptracker/backend/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
	log  *slog.Logger
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{repo: r, log: log}
}

// List runs the listing engine: the page query and the count query are issued
// concurrently against the same filter and combined into a TripPage.
// The two reads are not snapshot-consistent with each other; a write landing
// between them can make Total disagree with the page by that one write.
func (s *TripService) List(ctx context.Context, f domain.TripFilter) (domain.TripPage, error) {
	scope := "all"
	if f.OwnerID != nil {
		scope = "owned"
	}
	start := time.Now()

	var (
		trips []domain.TripView
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trips, err = s.repo.List(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, f)
		return err
	})
	err := g.Wait()

	metrics.TripListDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TripListQueries.WithLabelValues(scope, "error").Inc()
		return domain.TripPage{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	metrics.TripListQueries.WithLabelValues(scope, "ok").Inc()

	page := domain.NewTripPage(trips, total, f)
	s.log.DebugContext(ctx, "trip listing",
		"scope", scope,
		"page", page.Page,
		"per_page", page.PerPage,
		"returned", len(page.Trips),
		"total", page.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return page, nil
}

// GetByID returns a single trip joined to its owner.
// Returns domain.ErrNotFound for a missing trip or a trip whose owner is gone.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.TripView, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return v, nil
}

// Create validates trip, stamps ownerID as its owner, and persists it.
// Any owner or id already set on trip is ignored.
func (s *TripService) Create(ctx context.Context, trip domain.Trip, ownerID uuid.UUID) (domain.TripView, error) {
	trip.ID = uuid.Nil
	trip.OwnerID = ownerID
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	v, err := s.repo.GetByID(ctx, created.ID)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Create: reload: %w", err)
	}
	return v, nil
}

// Update applies patch to the trip with the given id. Owner, id, and creation
// time are never changed.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.TripView, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	next := normalizeTrip(patch.Apply(current.Trip()))
	if err := validateTrip(next); err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if _, err := s.repo.Update(ctx, next); err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.TripView{}, fmt.Errorf("service.TripService.Update: reload: %w", err)
	}
	return v, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Destination = strings.TrimSpace(t.Destination)
	t.Comment = strings.TrimSpace(t.Comment)
	if !t.StartDate.IsZero() {
		t.StartDate = domain.TruncateToDate(t.StartDate)
	}
	if !t.EndDate.IsZero() {
		t.EndDate = domain.TruncateToDate(t.EndDate)
	}
	return t
}

// validateTrip enforces the rules shared by create and update.
func validateTrip(t domain.Trip) error {
	switch {
	case t.Destination == "":
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	case t.StartDate.IsZero():
		return fmt.Errorf("%w: startdate is required", domain.ErrValidation)
	case t.EndDate.IsZero():
		return fmt.Errorf("%w: enddate is required", domain.ErrValidation)
	case t.EndDate.Before(t.StartDate):
		return fmt.Errorf("%w: enddate must not be before startdate", domain.ErrValidation)
	case t.OwnerID == uuid.Nil:
		return fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	return nil
}
