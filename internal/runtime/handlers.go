package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/airdesk/pkg/domain"
)

func (e *Engine) startBooking(_ context.Context, t *turn) (string, error) {
	t.state.Pending = domain.Pending{}
	t.state.Stage = domain.StageAwaitingFrom
	return msgAskFrom, nil
}

func (e *Engine) startCancel(_ context.Context, t *turn) (string, error) {
	t.state.Pending = domain.Pending{}
	t.state.Stage = domain.StageAwaitingCancelID
	return msgAskCancelID, nil
}

func (e *Engine) startStatus(_ context.Context, t *turn) (string, error) {
	t.state.Pending = domain.Pending{}
	t.state.Stage = domain.StageAwaitingStatusID
	return msgAskStatusID, nil
}

// cityHandler validates a city for the given leg of the trip.
// An inexact match is offered for confirmation instead of being accepted.
func cityHandler(role domain.CityRole) handlerFunc {
	return func(e *Engine, _ context.Context, t *turn) (string, error) {
		city, ok := e.cities.Match(t.msg)
		if !ok {
			return msgUnknownCity, nil
		}
		if !strings.EqualFold(city, t.msg) {
			t.state.Pending.SuggestedCity = city
			t.state.Pending.SuggestionFor = role
			t.state.Stage = domain.StageConfirmingCity
			return renderSuggestion(city, role), nil
		}
		return e.acceptCity(t, role, city), nil
	}
}

func (e *Engine) acceptCity(t *turn, role domain.CityRole, city string) string {
	t.state.Pending.Set(role, city)
	t.state.Pending.ClearSuggestion()
	if role == domain.RoleTo {
		t.state.Stage = domain.StageAwaitingFlightNumber
		return msgAskFlightNumber
	}
	t.state.Stage = domain.StageAwaitingTo
	return msgAskTo
}

func (e *Engine) confirmCity(_ context.Context, t *turn) (string, error) {
	role := t.state.Pending.SuggestionFor
	if role == "" {
		role = domain.RoleFrom
	}
	if t.lower == "yes" || t.lower == "y" {
		return e.acceptCity(t, role, t.state.Pending.SuggestedCity), nil
	}
	t.state.Pending.ClearSuggestion()
	t.state.Stage = role.Stage()
	return renderReenter(role), nil
}

func (e *Engine) flightNumber(_ context.Context, t *turn) (string, error) {
	t.state.Pending.FlightNumber = strings.ToUpper(t.msg)
	t.state.Stage = domain.StageAwaitingDate
	return msgAskDate, nil
}

// flightDate completes the booking. The generated ID is not checked against
// the ledger; a collision replaces the older entry.
func (e *Engine) flightDate(ctx context.Context, t *turn) (string, error) {
	date, err := domain.ParseDate(t.msg)
	if err != nil {
		return msgBadDate, nil
	}

	p := t.state.Pending
	b := domain.Booking{
		ID:           e.ids.NewID(),
		Origin:       p.Origin,
		Destination:  p.Destination,
		FlightNumber: p.FlightNumber,
		Date:         date,
		Status:       domain.DefaultStatus,
		CreatedAt:    e.now().UTC(),
	}
	if err := e.ledger.Put(ctx, b); err != nil {
		return "", fmt.Errorf("failed to record booking %s: %w", b.ID, err)
	}
	t.effects.undo = append(t.effects.undo, func(ctx context.Context) error {
		_, err := e.ledger.Remove(ctx, b.ID)
		return err
	})

	t.state.Reset()
	t.effects.notify = append(t.effects.notify, func(ctx context.Context) {
		e.emitBooking(ctx, domain.EventBookingCreated, t.state.SessionID, b)
	})
	return renderBooked(b), nil
}

func (e *Engine) cancelByID(ctx context.Context, t *turn) (string, error) {
	id := strings.ToUpper(t.msg)
	b, err := e.ledger.Remove(ctx, id)
	if errors.Is(err, domain.ErrBookingNotFound) {
		t.state.Reset()
		return msgInvalidCancelID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}
	t.effects.undo = append(t.effects.undo, func(ctx context.Context) error {
		return e.ledger.Put(ctx, b)
	})

	t.state.Reset()
	t.effects.notify = append(t.effects.notify, func(ctx context.Context) {
		e.emitBooking(ctx, domain.EventBookingCanceled, t.state.SessionID, b)
	})
	return renderCanceled(b), nil
}

func (e *Engine) statusByID(ctx context.Context, t *turn) (string, error) {
	id := strings.ToUpper(t.msg)
	b, err := e.ledger.Get(ctx, id)
	if errors.Is(err, domain.ErrBookingNotFound) {
		t.state.Reset()
		return msgInvalidStatusID, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up booking %s: %w", id, err)
	}

	t.state.Reset()
	return renderStatus(b), nil
}

func (e *Engine) answerPolicy(_ context.Context, t *turn) (string, error) {
	answer, score := e.policies.Answer(t.lower)
	e.logger.Debug("policy lookup", "session_id", t.state.SessionID, "score", score)
	return answer, nil
}

func (e *Engine) help(context.Context, *turn) (string, error) {
	return msgHelp, nil
}
