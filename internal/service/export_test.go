package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannr/trip-planner/internal/clock"
	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
	"github.com/plannr/trip-planner/internal/service"
)

func exportRepos(trip domain.Trip, ps []domain.Participant, as []domain.Activity, ls []domain.Link) repo.Repos {
	return repo.Repos{
		Trips: tripsReturning(trip),
		Participants: &mockParticipantRepo{
			listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Participant, error) { return ps, nil },
		},
		Activities: &mockActivityRepo{
			listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Activity, error) { return as, nil },
		},
		Links: &mockLinkRepo{
			listByTripID: func(_ context.Context, _ uuid.UUID) ([]domain.Link, error) { return ls, nil },
		},
	}
}

func TestExportService_Calendar(t *testing.T) {
	trip := tripFixture()
	trip.IsConfirmed = true
	participants := []domain.Participant{
		{ID: uuid.New(), TripID: trip.ID, Name: "Ana", Email: "ana@example.com", IsOwner: true, IsConfirmed: true},
		{ID: uuid.New(), TripID: trip.ID, Email: "bia@example.com"},
	}
	// repository order: occurs_at descending
	activities := []domain.Activity{
		{ID: uuid.New(), TripID: trip.ID, Title: "Dinner", OccursAt: time.Date(2030, 6, 3, 20, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), TripID: trip.ID, Title: "Hike", OccursAt: time.Date(2030, 6, 2, 7, 0, 0, 0, time.UTC)},
	}
	links := []domain.Link{{ID: uuid.New(), TripID: trip.ID, Title: "Airbnb", URL: "https://airbnb.com/rooms/1"}}

	svc := service.NewExportService(exportRepos(trip, participants, activities, links), clock.NewFixed(testNow), time.UTC)

	body, err := svc.Calendar(context.Background(), trip.ID)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR"))
	assert.Contains(t, text, "DTSTART;VALUE=DATE:20300601")
	assert.Contains(t, text, "DTEND;VALUE=DATE:20300606", "all-day end is exclusive")
	assert.Contains(t, text, "STATUS:CONFIRMED")

	cal, err := ical.ParseCalendar(strings.NewReader(text))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	tripEvent := events[0]
	assert.Equal(t, "trip-"+trip.ID.String()+"@plann.er", tripEvent.Id())
	assert.Equal(t, "Trip to Florianópolis", tripEvent.GetProperty(ical.ComponentPropertySummary).Value)

	attendees := tripEvent.Attendees()
	require.Len(t, attendees, 2)
	assert.Equal(t, "ana@example.com", attendees[0].Email())
	assert.Equal(t, ical.ParticipationStatusAccepted, attendees[0].ParticipationStatus())
	assert.Equal(t, ical.ParticipationStatusNeedsAction, attendees[1].ParticipationStatus())

	assert.Equal(t, "Hike", events[1].GetProperty(ical.ComponentPropertySummary).Value, "activities are chronological")
	assert.Equal(t, "Dinner", events[2].GetProperty(ical.ComponentPropertySummary).Value)

	start, err := events[1].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(activities[1].OccursAt))

	// sorting for the export must not reorder the repository's slice.
	assert.Equal(t, "Dinner", activities[0].Title)
	assert.Equal(t, "Hike", activities[1].Title)
}

func TestExportService_Calendar_TripNotFound(t *testing.T) {
	svc := service.NewExportService(exportRepos(tripFixture(), nil, nil, nil), clock.NewFixed(testNow), nil)

	_, err := svc.Calendar(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
