package database

import "errors"

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("entity not found")

// ErrEmptyName is returned when an itinerary is saved without a name
var ErrEmptyName = errors.New("itinerary name must not be empty")

// ErrPersistenceUnavailable marks a transport failure talking to the
// remote itinerary backend. The fallback repository redirects the
// operation to the local store when it sees this error.
type ErrPersistenceUnavailable struct {
	Op     string
	Reason string
}

func (e *ErrPersistenceUnavailable) Error() string {
	return "remote persistence unavailable during " + e.Op + ": " + e.Reason
}
