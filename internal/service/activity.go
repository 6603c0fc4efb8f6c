package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
)

// ActivityService schedules activities and groups them by trip day.
// loc defines what a calendar day is for both validation and bucketing.
type ActivityService struct {
	trips      repo.TripRepo
	activities repo.ActivityRepo
	loc        *time.Location
}

// NewActivityService constructs an ActivityService. A nil loc means UTC.
func NewActivityService(repos repo.Repos, loc *time.Location) *ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &ActivityService{trips: repos.Trips, activities: repos.Activities, loc: loc}
}

// Create schedules an activity on the trip.
// Returns domain.ErrNotFound if the trip does not exist and domain.ErrValidation
// if occursAt is not on one of the trip's days.
func (s *ActivityService) Create(ctx context.Context, tripID uuid.UUID, title string, occursAt time.Time) (domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	if err := domain.ValidateActivityDate(trip, occursAt, s.loc); err != nil {
		return domain.Activity{}, err
	}

	a, err := s.activities.Create(ctx, domain.Activity{
		TripID:   trip.ID,
		Title:    strings.TrimSpace(title),
		OccursAt: occursAt,
	})
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	return a, nil
}

// ListByDay returns one bucket per calendar day of the trip, each holding the
// activities of that day.
func (s *ActivityService) ListByDay(ctx context.Context, tripID uuid.UUID) ([]domain.DayBucket, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByDay: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.ListByDay: %w", err)
	}
	return domain.BucketActivities(trip.StartsAt, trip.EndsAt, activities, s.loc), nil
}
