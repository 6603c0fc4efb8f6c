package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
)

// ParticipantService implements business logic for Participant operations.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     *Notifier
	log          *slog.Logger
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(repos repo.Repos, notifier *Notifier, log *slog.Logger) *ParticipantService {
	if log == nil {
		log = slog.Default()
	}
	return &ParticipantService{
		trips:        repos.Trips,
		participants: repos.Participants,
		notifier:     notifier,
		log:          log,
	}
}

// Invite adds email to the trip and sends them an invitation.
// Returns domain.ErrNotFound if the trip does not exist and domain.ErrConflict
// if the email is already on the trip. A mail failure is logged only.
func (s *ParticipantService) Invite(ctx context.Context, tripID uuid.UUID, email string) (domain.Participant, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}

	p, err := s.participants.Create(ctx, domain.Participant{TripID: trip.ID, Email: normalizeEmail(email)})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Invite: %w", err)
	}

	if err := s.notifier.Invite(ctx, trip, p); err != nil {
		s.log.ErrorContext(ctx, "invitation email failed", "trip_id", trip.ID, "participant_id", p.ID, "error", err)
	}
	return p, nil
}

// ListByTripID returns the participants of a trip, owner first.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ParticipantService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	participants, err := s.participants.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ParticipantService.ListByTripID: %w", err)
	}
	if participants == nil {
		return []domain.Participant{}, nil
	}
	return participants, nil
}

// GetByID returns a participant regardless of trip.
func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetByID: %w", err)
	}
	return p, nil
}

// GetOnTrip returns a participant only if it belongs to tripID.
// A participant of another trip is reported as domain.ErrNotFound.
func (s *ParticipantService) GetOnTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	p, err := s.onTrip(ctx, tripID, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.GetOnTrip: %w", err)
	}
	return p, nil
}

// Confirm marks the participant as attending. Confirming twice is a no-op.
func (s *ParticipantService) Confirm(ctx context.Context, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	return s.confirm(ctx, p)
}

// ConfirmOnTrip is Confirm scoped to tripID.
func (s *ParticipantService) ConfirmOnTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	p, err := s.onTrip(ctx, tripID, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.ConfirmOnTrip: %w", err)
	}
	return s.confirm(ctx, p)
}

func (s *ParticipantService) confirm(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	if p.IsConfirmed {
		return p, nil
	}
	confirmed, err := s.participants.Confirm(ctx, p.ID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.ParticipantService.Confirm: %w", err)
	}
	return confirmed, nil
}

func (s *ParticipantService) onTrip(ctx context.Context, tripID, id uuid.UUID) (domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		return domain.Participant{}, err
	}
	if p.TripID != tripID {
		return domain.Participant{}, domain.ErrNotFound
	}
	return p, nil
}
