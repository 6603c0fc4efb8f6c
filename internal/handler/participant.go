package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/plannr/trip-planner/internal/domain"
)

type createInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Participant is the JSON representation of a participant.
// Name is null until the participant provides one.
type Participant struct {
	ID          openapi_types.UUID  `json:"id"`
	Name        *string             `json:"name"`
	Email       openapi_types.Email `json:"email"`
	IsConfirmed bool                `json:"is_confirmed"`
}

// CreateInvite handles POST /trips/{tripId}/invites.
func (s *Server) CreateInvite(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}
	var req createInviteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	p, err := s.svc.Participants.Invite(r.Context(), tripID, req.Email)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]openapi_types.UUID{"participant_id": p.ID})
}

// ListParticipants handles GET /trips/{tripId}/participants.
func (s *Server) ListParticipants(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripId")
	if !ok {
		return
	}

	participants, err := s.svc.Participants.ListByTripID(r.Context(), tripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	data := make([]Participant, len(participants))
	for i, p := range participants {
		data[i] = participantToResponse(p)
	}
	writeJSON(w, http.StatusOK, map[string][]Participant{"participants": data})
}

// GetParticipant handles GET /trips/{tripId}/participants/{participantId}
// and its unscoped alias GET /participants/{participantId}.
func (s *Server) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, ok := pathUUID(w, r, "participantId")
	if !ok {
		return
	}

	var (
		p   domain.Participant
		err error
	)
	tripID, scoped, ok := optionalTripID(w, r)
	if !ok {
		return
	}
	if scoped {
		p, err = s.svc.Participants.GetOnTrip(r.Context(), tripID, participantID)
	} else {
		p, err = s.svc.Participants.GetByID(r.Context(), participantID)
	}
	if err != nil {
		s.writeServiceError(w, r, err, "participant not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]Participant{"participant": participantToResponse(p)})
}

// ConfirmParticipant handles GET /trips/{tripId}/confirm/{participantId}, the
// link emailed with every invitation, and its alias
// GET /participants/{participantId}/confirm. Both redirect to the trip page.
func (s *Server) ConfirmParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, ok := pathUUID(w, r, "participantId")
	if !ok {
		return
	}

	var (
		p   domain.Participant
		err error
	)
	tripID, scoped, ok := optionalTripID(w, r)
	if !ok {
		return
	}
	if scoped {
		p, err = s.svc.Participants.ConfirmOnTrip(r.Context(), tripID, participantID)
	} else {
		p, err = s.svc.Participants.Confirm(r.Context(), participantID)
	}
	if err != nil {
		s.writeServiceError(w, r, err, "participant not found")
		return
	}

	http.Redirect(w, r, s.webURL("/trips/"+p.TripID.String()), http.StatusFound)
}

// optionalTripID binds {tripId} when the matched route has one. scoped is
// false on the /participants aliases.
func optionalTripID(w http.ResponseWriter, r *http.Request) (id uuid.UUID, scoped, ok bool) {
	if chi.URLParam(r, "tripId") == "" {
		return uuid.Nil, false, true
	}
	id, ok = pathUUID(w, r, "tripId")
	return id, true, ok
}

func participantToResponse(p domain.Participant) Participant {
	out := Participant{
		ID:          p.ID,
		Email:       openapi_types.Email(p.Email),
		IsConfirmed: p.IsConfirmed,
	}
	if p.Name != "" {
		name := p.Name
		out.Name = &name
	}
	return out
}
