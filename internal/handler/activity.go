package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/plannr/trip-planner/internal/domain"
)

type createActivityRequest struct {
	Title    string     `json:"title" validate:"required,min=4"`
	OccursAt *time.Time `json:"occurs_at" validate:"required"`
}

// Activity is the JSON representation of an activity.
type Activity struct {
	ID       openapi_types.UUID `json:"id"`
	Title    string             `json:"title"`
	OccursAt time.Time          `json:"occurs_at"`
}

// DayActivities is one calendar day of a trip with the activities on it.
type DayActivities struct {
	Date       openapi_types.Date `json:"date"`
	Activities []Activity         `json:"activities"`
}

// CreateActivity handles POST /trips/{tripId}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var req createActivityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	a, err := s.svc.Activities.Create(r.Context(), tripID, req.Title, *req.OccursAt)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]openapi_types.UUID{"activity_id": a.ID})
}

// ListActivities handles GET /trips/{tripId}/activities.
// The response holds one entry per day of the trip, including empty days.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	buckets, err := s.svc.Activities.ListByDay(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	days := make([]DayActivities, len(buckets))
	for i, b := range buckets {
		days[i] = bucketToResponse(b)
	}
	writeJSON(w, http.StatusOK, map[string][]DayActivities{"activities": days})
}

func bucketToResponse(b domain.DayBucket) DayActivities {
	out := DayActivities{
		Date:       openapi_types.Date{Time: b.Date},
		Activities: make([]Activity, len(b.Activities)),
	}
	for i, a := range b.Activities {
		out.Activities[i] = Activity{ID: a.ID, Title: a.Title, OccursAt: a.OccursAt}
	}
	return out
}
