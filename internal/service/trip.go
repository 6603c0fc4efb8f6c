// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls
// and outbound email. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plannr/trip-planner/internal/clock"
	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/repo"
)

// CreateTripInput carries everything needed to open a trip.
type CreateTripInput struct {
	Destination    string
	StartsAt       time.Time
	EndsAt         time.Time
	OwnerName      string
	OwnerEmail     string
	EmailsToInvite []string
}

// UpdateTripInput carries the mutable fields of a trip.
type UpdateTripInput struct {
	Destination string
	StartsAt    time.Time
	EndsAt      time.Time
}

// ConfirmTripResult reports what ConfirmTrip did. When AlreadyConfirmed is
// true nothing was written and no email was sent.
type ConfirmTripResult struct {
	Trip             domain.Trip
	AlreadyConfirmed bool
	Invitations      FanOutReport
}

// TripService implements business logic for Trip operations.
type TripService struct {
	tx           repo.TxRunner
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	notifier     *Notifier
	clock        clock.Clock
	log          *slog.Logger
}

// NewTripService constructs a TripService. tx is used for the multi-row write
// in Create; repos serve everything else.
func NewTripService(tx repo.TxRunner, repos repo.Repos, notifier *Notifier, clk clock.Clock, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{
		tx:           tx,
		trips:        repos.Trips,
		participants: repos.Participants,
		notifier:     notifier,
		clock:        clk,
		log:          log,
	}
}

// Create validates the dates, then persists the trip, its confirmed owner and
// one participant per invited email in a single transaction. The owner is
// emailed a confirmation link once the transaction commits.
//
// Invited emails are lowercased and deduplicated; the owner's own address is
// skipped. A mail failure is logged and does not undo the trip.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (domain.Trip, error) {
	if err := domain.ValidateTripDates(in.StartsAt, in.EndsAt, s.clock.Now()); err != nil {
		return domain.Trip{}, err
	}

	ownerEmail := normalizeEmail(in.OwnerEmail)
	invitees := uniqueEmails(in.EmailsToInvite, ownerEmail)

	var (
		trip  domain.Trip
		owner domain.Participant
	)
	err := s.tx.WithTx(ctx, func(r repo.Repos) error {
		var err error
		trip, err = r.Trips.Create(ctx, domain.Trip{
			Destination: strings.TrimSpace(in.Destination),
			StartsAt:    in.StartsAt,
			EndsAt:      in.EndsAt,
		})
		if err != nil {
			return err
		}

		owner, err = r.Participants.Create(ctx, domain.Participant{
			TripID:      trip.ID,
			Name:        strings.TrimSpace(in.OwnerName),
			Email:       ownerEmail,
			IsConfirmed: true,
			IsOwner:     true,
		})
		if err != nil {
			return err
		}

		for _, email := range invitees {
			if _, err := r.Participants.Create(ctx, domain.Participant{TripID: trip.ID, Email: email}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	if err := s.notifier.TripConfirmation(ctx, trip, owner); err != nil {
		s.log.ErrorContext(ctx, "trip confirmation email failed", "trip_id", trip.ID, "to", owner.Email, "error", err)
	}
	return trip, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update validates and overwrites destination and dates.
// Returns domain.ErrNotFound if the trip does not exist and domain.ErrValidation
// if the new dates break the trip date rules.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, in UpdateTripInput) (domain.Trip, error) {
	if _, err := s.trips.GetByID(ctx, id); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := domain.ValidateTripDates(in.StartsAt, in.EndsAt, s.clock.Now()); err != nil {
		return domain.Trip{}, err
	}

	trip, err := s.trips.Update(ctx, domain.Trip{
		ID:          id,
		Destination: strings.TrimSpace(in.Destination),
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return trip, nil
}

// Confirm marks the trip confirmed and invites every participant except the
// owner. Confirming an already confirmed trip is a no-op.
//
// Failed invitations are logged and returned in the result; they never undo
// the confirmation.
func (s *TripService) Confirm(ctx context.Context, id uuid.UUID) (ConfirmTripResult, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return ConfirmTripResult{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	if trip.IsConfirmed {
		return ConfirmTripResult{Trip: trip, AlreadyConfirmed: true}, nil
	}

	confirmed, err := s.trips.Confirm(ctx, id)
	if errors.Is(err, domain.ErrAlreadyConfirmed) {
		// a concurrent request won the update and sends the invitations.
		trip.IsConfirmed = true
		return ConfirmTripResult{Trip: trip, AlreadyConfirmed: true}, nil
	}
	if err != nil {
		return ConfirmTripResult{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	trip = confirmed

	participants, err := s.participants.ListByTripID(ctx, id)
	if err != nil {
		return ConfirmTripResult{}, fmt.Errorf("service.TripService.Confirm: %w", err)
	}
	guests := make([]domain.Participant, 0, len(participants))
	for _, p := range participants {
		if !p.IsOwner {
			guests = append(guests, p)
		}
	}

	report := s.notifier.InviteAll(ctx, trip, guests)
	if len(report.Failed) > 0 {
		s.log.WarnContext(ctx, "some invitations were not sent",
			"trip_id", trip.ID,
			"sent", len(report.Sent),
			"failed", report.FailedEmails(),
			"error", report.Err(),
		)
	}
	return ConfirmTripResult{Trip: trip, Invitations: report}, nil
}

// normalizeEmail trims and lowercases an address so that uniqueness checks
// treat "Ana@Mail.com" and "ana@mail.com" as the same participant.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// uniqueEmails normalizes emails, drops blanks, duplicates and skip, and keeps
// first-seen order.
func uniqueEmails(emails []string, skip string) []string {
	seen := map[string]bool{skip: true, "": true}
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = normalizeEmail(e)
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
