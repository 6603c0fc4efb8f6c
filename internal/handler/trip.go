package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/service"
)

type createTripRequest struct {
	Destination    string     `json:"destination" validate:"required,min=4"`
	StartsAt       *time.Time `json:"starts_at" validate:"required"`
	EndsAt         *time.Time `json:"ends_at" validate:"required"`
	OwnerName      string     `json:"owner_name" validate:"required"`
	OwnerEmail     string     `json:"owner_email" validate:"required,email"`
	EmailsToInvite []string   `json:"emails_to_invite" validate:"omitempty,dive,email"`
}

type updateTripRequest struct {
	Destination string     `json:"destination" validate:"required,min=4"`
	StartsAt    *time.Time `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at" validate:"required"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID          openapi_types.UUID `json:"id"`
	Destination string             `json:"destination"`
	StartsAt    time.Time          `json:"starts_at"`
	EndsAt      time.Time          `json:"ends_at"`
	IsConfirmed bool               `json:"is_confirmed"`
	CreatedAt   time.Time          `json:"created_at"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	trip, err := s.svc.Trips.Create(r.Context(), service.CreateTripInput{
		Destination:    req.Destination,
		StartsAt:       *req.StartsAt,
		EndsAt:         *req.EndsAt,
		OwnerName:      req.OwnerName,
		OwnerEmail:     req.OwnerEmail,
		EmailsToInvite: req.EmailsToInvite,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]openapi_types.UUID{"trip_id": trip.ID})
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	trip, err := s.svc.Trips.GetByID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]Trip{"trip": tripToResponse(trip)})
}

// UpdateTrip handles PUT /trips/{tripId}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var req updateTripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	trip, err := s.svc.Trips.Update(r.Context(), tripID, service.UpdateTripInput{
		Destination: req.Destination,
		StartsAt:    *req.StartsAt,
		EndsAt:      *req.EndsAt,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]openapi_types.UUID{"trip_id": trip.ID})
}

// ConfirmTrip handles GET /trips/{tripId}/confirm, the link emailed to the owner.
// It always ends in a redirect to the web app once the trip is known.
func (s *Server) ConfirmTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	if _, err := s.svc.Trips.Confirm(r.Context(), tripID); err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	http.Redirect(w, r, s.webURL("/"), http.StatusFound)
}

// --- mapping helpers --------------------------------------------------------

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		Destination: t.Destination,
		StartsAt:    t.StartsAt,
		EndsAt:      t.EndsAt,
		IsConfirmed: t.IsConfirmed,
		CreatedAt:   t.CreatedAt,
	}
}
