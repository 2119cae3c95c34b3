package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn            EventType = "turn"
	EventBookingCreated  EventType = "booking_created"
	EventBookingCanceled EventType = "booking_canceled"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// TurnEvent describes one processed message.
type TurnEvent struct {
	EventBase
	From   Stage  `json:"from"`
	To     Stage  `json:"to"`
	Intent string `json:"intent"` // Name of the dispatch rule that handled the message
}

// BookingEvent describes a ledger mutation caused by the dialogue.
type BookingEvent struct {
	EventBase
	Booking Booking `json:"booking"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTurn            func(context.Context, *TurnEvent)
	OnBookingCreated  func(context.Context, *BookingEvent)
	OnBookingCanceled func(context.Context, *BookingEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTurn:            chain(h.OnTurn, other.OnTurn),
		OnBookingCreated:  chain(h.OnBookingCreated, other.OnBookingCreated),
		OnBookingCanceled: chain(h.OnBookingCanceled, other.OnBookingCanceled),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
