package ports

import (
	"context"

	"github.com/aretw0/airdesk/pkg/domain"
)

// Ledger stores bookings keyed by booking ID.
// IDs are compared exactly; callers upper-case user input before lookup.
type Ledger interface {
	// Put stores the booking, replacing any entry with the same ID.
	Put(ctx context.Context, booking domain.Booking) error

	// Get returns the booking with the given ID.
	// Returns domain.ErrBookingNotFound if it does not exist.
	Get(ctx context.Context, id string) (domain.Booking, error)

	// Remove deletes the booking and returns what was stored.
	// Returns domain.ErrBookingNotFound if it does not exist.
	Remove(ctx context.Context, id string) (domain.Booking, error)

	// List returns all bookings ordered by ID.
	List(ctx context.Context) ([]domain.Booking, error)
}
