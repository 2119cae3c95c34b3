package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/airdesk/pkg/domain"
)

// handlerFunc produces the reply for a turn and mutates its state.
type handlerFunc func(e *Engine, ctx context.Context, t *turn) (string, error)

// rule is one row of the dispatch table.
type rule struct {
	name   string
	match  func(e *Engine, t *turn) bool
	handle handlerFunc
}

// Intent names reported in TurnEvent.Intent.
const (
	IntentConfirmCity  = "confirm_city"
	IntentFlightNumber = "flight_number"
	IntentDate         = "date"
	IntentCancelID     = "cancel_id"
	IntentStatusID     = "status_id"
	IntentBook         = "book"
	IntentCancel       = "cancel"
	IntentStatus       = "status"
	IntentCityFrom     = "city_from"
	IntentCityTo       = "city_to"
	IntentPolicy       = "policy"
	IntentHelp         = "help"
)

// exclusiveStages expect raw input (a date, an ID, yes/no) that could
// contain a command keyword, so they are dispatched before any command.
var exclusiveStages = map[domain.Stage]rule{
	domain.StageConfirmingCity:       {name: IntentConfirmCity, handle: (*Engine).confirmCity},
	domain.StageAwaitingFlightNumber: {name: IntentFlightNumber, handle: (*Engine).flightNumber},
	domain.StageAwaitingDate:         {name: IntentDate, handle: (*Engine).flightDate},
	domain.StageAwaitingCancelID:     {name: IntentCancelID, handle: (*Engine).cancelByID},
	domain.StageAwaitingStatusID:     {name: IntentStatusID, handle: (*Engine).statusByID},
}

// commands interrupt any non-exclusive stage. Evaluated in order.
var commands = []rule{
	{name: IntentBook, match: contains("book"), handle: (*Engine).startBooking},
	{name: IntentCancel, match: contains("cancel"), handle: (*Engine).startCancel},
	{name: IntentStatus, match: contains("status", "check"), handle: (*Engine).startStatus},
}

// stageHandlers consume input for the non-exclusive stages.
var stageHandlers = map[domain.Stage]rule{
	domain.StageAwaitingFrom: {name: IntentCityFrom, handle: cityHandler(domain.RoleFrom)},
	domain.StageAwaitingTo:   {name: IntentCityTo, handle: cityHandler(domain.RoleTo)},
}

// fallbacks run when nothing else claimed the message. Evaluated in order;
// the last one always matches.
var fallbacks = []rule{
	{name: IntentPolicy, match: func(e *Engine, t *turn) bool { return e.policies.Triggered(t.lower) }, handle: (*Engine).answerPolicy},
	{name: IntentHelp, match: func(*Engine, *turn) bool { return true }, handle: (*Engine).help},
}

// route picks the rule for a turn: exclusive stage, then commands, then the
// stage handler, then fallbacks.
func (e *Engine) route(t *turn) rule {
	if r, ok := exclusiveStages[t.state.Stage]; ok {
		return r
	}
	for _, r := range commands {
		if r.match(e, t) {
			return r
		}
	}
	if r, ok := stageHandlers[t.state.Stage]; ok {
		return r
	}
	for _, r := range fallbacks {
		if r.match(e, t) {
			return r
		}
	}
	// Unreachable: the help fallback always matches.
	return fallbacks[len(fallbacks)-1]
}

func contains(keywords ...string) func(*Engine, *turn) bool {
	return func(_ *Engine, t *turn) bool {
		for _, k := range keywords {
			if strings.Contains(t.lower, k) {
				return true
			}
		}
		return false
	}
}
