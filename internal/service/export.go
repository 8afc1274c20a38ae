package service

import (
	"context"
	"fmt"

	"github.com/pkordes/triptracker/backend/internal/domain"
	"github.com/pkordes/triptracker/backend/internal/repo"
)

// ExportService produces a full, unpaginated dump of the trips matching a filter.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided TripRepo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns every trip matching f in listing order. Pagination fields on
// f are ignored. The slice is never nil.
func (s *ExportService) Export(ctx context.Context, f domain.TripFilter) ([]domain.TripView, error) {
	f.Page, f.PerPage = 1, 0

	trips, err := s.trips.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if trips == nil {
		trips = []domain.TripView{}
	}
	return trips, nil
}
