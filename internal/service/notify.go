package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/plannr/trip-planner/internal/domain"
	"github.com/plannr/trip-planner/internal/mail"
)

// DefaultMailConcurrency is used when NewNotifier is given a non-positive limit.
const DefaultMailConcurrency = 5

// Notifier renders and sends the trip planner's emails.
type Notifier struct {
	composer *mail.Composer
	gateway  mail.Gateway
	limit    int
	log      *slog.Logger
}

// NewNotifier constructs a Notifier. limit bounds how many invitations are in
// flight at once during a fan-out.
func NewNotifier(composer *mail.Composer, gateway mail.Gateway, limit int, log *slog.Logger) *Notifier {
	if limit <= 0 {
		limit = DefaultMailConcurrency
	}
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{composer: composer, gateway: gateway, limit: limit, log: log}
}

// FailedDelivery pairs a participant with the error that kept their email from being sent.
type FailedDelivery struct {
	Participant domain.Participant
	Err         error
}

// FanOutReport is the outcome of sending one email per participant.
// Sent and Failed keep the order of the input participants.
type FanOutReport struct {
	Sent   []domain.Participant
	Failed []FailedDelivery
}

// Err joins every failure, or returns nil when all sends succeeded.
func (r FanOutReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Participant.Email, f.Err))
	}
	return errors.Join(errs...)
}

// FailedEmails lists the recipients that were not reached.
func (r FanOutReport) FailedEmails() []string {
	out := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		out = append(out, f.Participant.Email)
	}
	return out
}

// TripConfirmation emails the owner the link that confirms the trip.
func (n *Notifier) TripConfirmation(ctx context.Context, trip domain.Trip, owner domain.Participant) error {
	msg, err := n.composer.TripConfirmation(trip, owner)
	if err != nil {
		return fmt.Errorf("service.Notifier.TripConfirmation: %w", err)
	}
	d, err := n.gateway.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("service.Notifier.TripConfirmation: %w", err)
	}
	n.log.InfoContext(ctx, "trip confirmation sent", "trip_id", trip.ID, "message_id", d.MessageID)
	return nil
}

// Invite emails a single participant their personal confirmation link.
func (n *Notifier) Invite(ctx context.Context, trip domain.Trip, p domain.Participant) error {
	msg, err := n.composer.Invitation(trip, p)
	if err != nil {
		return fmt.Errorf("service.Notifier.Invite: %w", err)
	}
	if _, err := n.gateway.Send(ctx, msg); err != nil {
		return fmt.Errorf("service.Notifier.Invite: %w", err)
	}
	return nil
}

// InviteAll sends one invitation per participant with at most n.limit sends
// in flight. A failed send never cancels its siblings; every outcome is
// collected in the returned report.
func (n *Notifier) InviteAll(ctx context.Context, trip domain.Trip, participants []domain.Participant) FanOutReport {
	errs := make([]error, len(participants))

	var g errgroup.Group
	g.SetLimit(n.limit)
	for i, p := range participants {
		g.Go(func() error {
			errs[i] = n.Invite(ctx, trip, p)
			return nil
		})
	}
	_ = g.Wait()

	report := FanOutReport{Sent: []domain.Participant{}, Failed: []FailedDelivery{}}
	for i, p := range participants {
		if errs[i] != nil {
			report.Failed = append(report.Failed, FailedDelivery{Participant: p, Err: errs[i]})
			continue
		}
		report.Sent = append(report.Sent, p)
	}
	return report
}
