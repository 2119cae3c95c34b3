package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrBookingNotFound is returned when a booking ID is not in the ledger.
var ErrBookingNotFound = errors.New("booking not found")
