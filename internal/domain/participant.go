package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person invited to a trip.
// The owner is created together with the trip and is confirmed from the start;
// everybody else confirms through the link in their invitation email.
type Participant struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Name        string // empty until the participant supplies one
	Email       string
	IsConfirmed bool
	IsOwner     bool
	CreatedAt   time.Time
}
