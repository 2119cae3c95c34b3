package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/airdesk/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Ledger implements ports.Ledger using one JSON string per booking
// plus a SET of known IDs.
type Ledger struct {
	client *backend.Client
	prefix string
}

// NewLedger creates a Redis backed booking ledger.
func NewLedger(client *backend.Client, opts ...Option) *Ledger {
	o := applyOptions(opts)
	return &Ledger{client: client, prefix: o.prefix}
}

func (l *Ledger) key(id string) string {
	return l.prefix + "booking:" + id
}

func (l *Ledger) indexKey() string {
	return l.prefix + "booking:index"
}

// Put stores the booking. Bookings never expire.
func (l *Ledger) Put(ctx context.Context, booking domain.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	_, err = l.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, l.key(booking.ID), data, 0)
		pipe.SAdd(ctx, l.indexKey(), booking.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store booking %s: %w", booking.ID, err)
	}
	return nil
}

// Get returns the booking with the given ID.
func (l *Ledger) Get(ctx context.Context, id string) (domain.Booking, error) {
	val, err := l.client.Get(ctx, l.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return decodeBooking(val)
}

// Remove deletes the booking atomically and returns what was stored.
func (l *Ledger) Remove(ctx context.Context, id string) (domain.Booking, error) {
	var get *backend.StringCmd
	_, err := l.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		get = pipe.GetDel(ctx, l.key(id))
		pipe.SRem(ctx, l.indexKey(), id)
		return nil
	})
	if err != nil && !errors.Is(err, backend.Nil) {
		return domain.Booking{}, fmt.Errorf("failed to remove booking %s: %w", id, err)
	}

	val, err := get.Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("failed to remove booking %s: %w", id, err)
	}
	return decodeBooking(val)
}

// List returns all bookings ordered by ID.
func (l *Ledger) List(ctx context.Context) ([]domain.Booking, error) {
	ids, err := l.client.SMembers(ctx, l.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	sort.Strings(ids)

	out := make([]domain.Booking, 0, len(ids))
	for _, id := range ids {
		b, err := l.Get(ctx, id)
		if errors.Is(err, domain.ErrBookingNotFound) {
			continue // removed between SMEMBERS and GET
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeBooking(data []byte) (domain.Booking, error) {
	var b domain.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Booking{}, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	return b, nil
}
