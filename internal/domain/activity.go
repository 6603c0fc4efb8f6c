package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a scheduled event within a trip.
type Activity struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	OccursAt  time.Time
	CreatedAt time.Time
}
