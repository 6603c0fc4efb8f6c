package domain

import (
	"time"

	"github.com/google/uuid"
)

// Link is a titled URL attached to a trip (booking confirmations, maps, docs).
type Link struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Title     string
	URL       string
	CreatedAt time.Time
}
