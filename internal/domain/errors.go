package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. trip ends before it starts, activity outside the trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// such as inviting the same email to a trip twice.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")

// ErrAlreadyConfirmed is returned by TripRepo.Confirm when the trip exists but
// another request confirmed it first. Only the caller whose write flipped the
// flag may act on the confirmation.
var ErrAlreadyConfirmed = errors.New("already confirmed")
