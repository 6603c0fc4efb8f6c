package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
)

// LinkService manages the links shared on a trip.
type LinkService struct {
	trips repo.TripRepo
	links repo.LinkRepo
}

// NewLinkService constructs a LinkService.
func NewLinkService(repos repo.Repos) *LinkService {
	return &LinkService{trips: repos.Trips, links: repos.Links}
}

// Create attaches a link to the trip.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *LinkService) Create(ctx context.Context, tripID uuid.UUID, title, url string) (domain.Link, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return domain.Link{}, fmt.Errorf("service.LinkService.Create: %w", err)
	}
	l, err := s.links.Create(ctx, domain.Link{
		TripID: tripID,
		Title:  strings.TrimSpace(title),
		URL:    strings.TrimSpace(url),
	})
	if err != nil {
		return domain.Link{}, fmt.Errorf("service.LinkService.Create: %w", err)
	}
	return l, nil
}

// ListByTripID returns the trip's links in creation order.
func (s *LinkService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Link, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.LinkService.ListByTripID: %w", err)
	}
	links, err := s.links.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.LinkService.ListByTripID: %w", err)
	}
	if links == nil {
		return []domain.Link{}, nil
	}
	return links, nil
}
