package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/airdesk/pkg/domain"
)

// Ledger implements ports.Ledger with a process-wide map.
type Ledger struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{bookings: make(map[string]domain.Booking)}
}

// Put stores the booking, overwriting any entry with the same ID.
func (l *Ledger) Put(ctx context.Context, booking domain.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bookings[booking.ID] = booking
	return nil
}

// Get returns the booking with the given ID.
func (l *Ledger) Get(ctx context.Context, id string) (domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return b, nil
}

// Remove deletes and returns the booking.
func (l *Ledger) Remove(ctx context.Context, id string) (domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	delete(l.bookings, id)
	return b, nil
}

// List returns all bookings ordered by ID.
func (l *Ledger) List(ctx context.Context) ([]domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Len returns the number of stored bookings.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}
