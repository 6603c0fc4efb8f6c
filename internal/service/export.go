package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/plannr/trip-planner/internal/clock"
	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
)

// calendarService is the PRODID vendor and the domain of every event UID.
const calendarService = "plann.er"

// ExportService renders a trip as an iCalendar document.
type ExportService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	activities   repo.ActivityRepo
	links        repo.LinkRepo
	clock        clock.Clock
	loc          *time.Location
}

// NewExportService constructs an ExportService. A nil loc means UTC.
func NewExportService(repos repo.Repos, clk clock.Clock, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{
		trips:        repos.Trips,
		participants: repos.Participants,
		activities:   repos.Activities,
		links:        repos.Links,
		clock:        clk,
		loc:          loc,
	}
}

// Calendar returns the trip as a VCALENDAR with one all-day VEVENT spanning
// the trip and one VEVENT per activity in chronological order. Participants
// are attendees of the trip event; links go into its description.
func (s *ExportService) Calendar(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	participants, err := s.participants.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	activities, err := s.activities.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	links, err := s.links.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}

	now := s.clock.Now()
	cal := ical.NewCalendarFor(calendarService)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(trip.Destination)
	cal.SetXWRTimezone(s.loc.String())

	ev := cal.AddEvent(eventUID("trip", trip.ID))
	ev.SetDtStampTime(now)
	ev.SetCreatedTime(trip.CreatedAt)
	ev.SetSummary("Trip to " + trip.Destination)
	ev.SetLocation(trip.Destination)
	// DTEND of an all-day event is exclusive.
	ev.SetAllDayStartAt(domain.CalendarDate(trip.StartsAt, s.loc))
	ev.SetAllDayEndAt(domain.CalendarDate(trip.EndsAt, s.loc).AddDate(0, 0, 1))
	if trip.IsConfirmed {
		ev.SetStatus(ical.ObjectStatusConfirmed)
	} else {
		ev.SetStatus(ical.ObjectStatusTentative)
	}
	if len(links) > 0 {
		ev.SetDescription(describeLinks(links))
	}
	for _, p := range participants {
		ev.AddAttendee(p.Email, attendeeParams(p)...)
	}

	activities = slices.Clone(activities)
	slices.SortStableFunc(activities, func(a, b domain.Activity) int {
		return a.OccursAt.Compare(b.OccursAt)
	})
	for _, a := range activities {
		ae := cal.AddEvent(eventUID("activity", a.ID))
		ae.SetDtStampTime(now)
		ae.SetCreatedTime(a.CreatedAt)
		ae.SetSummary(a.Title)
		ae.SetLocation(trip.Destination)
		ae.SetStartAt(a.OccursAt)
	}

	return []byte(cal.Serialize()), nil
}

func eventUID(kind string, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s@%s", kind, id, calendarService)
}

func attendeeParams(p domain.Participant) []ical.PropertyParameter {
	var params []ical.PropertyParameter
	if p.Name != "" {
		params = append(params, ical.WithCN(p.Name))
	}
	if p.IsConfirmed {
		params = append(params, ical.ParticipationStatusAccepted)
	} else {
		params = append(params, ical.ParticipationStatusNeedsAction)
	}
	return params
}

func describeLinks(links []domain.Link) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, l.Title+": "+l.URL)
	}
	return strings.Join(lines, "\n")
}
