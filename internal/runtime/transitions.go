package runtime

import "github.com/aretw0/airdesk/pkg/domain"

// interruptible are the stages where keyword commands are honored.
var interruptible = []domain.Stage{
	domain.StageNone,
	domain.StageAwaitingFrom,
	domain.StageAwaitingTo,
}

// Exclusive reports whether stage ignores keyword commands.
func Exclusive(stage domain.Stage) bool {
	_, ok := exclusiveStages[stage]
	return ok
}

// Transitions lists the edges of the dialogue state machine.
// Self-loops for retries and fallbacks are omitted.
func Transitions() []domain.Transition {
	var out []domain.Transition
	for _, from := range interruptible {
		out = append(out,
			domain.Transition{From: from, To: domain.StageAwaitingFrom, Trigger: "book", Command: true},
			domain.Transition{From: from, To: domain.StageAwaitingCancelID, Trigger: "cancel", Command: true},
			domain.Transition{From: from, To: domain.StageAwaitingStatusID, Trigger: "status/check", Command: true},
		)
	}
	return append(out,
		domain.Transition{From: domain.StageAwaitingFrom, To: domain.StageAwaitingTo, Trigger: "exact city"},
		domain.Transition{From: domain.StageAwaitingFrom, To: domain.StageConfirmingCity, Trigger: "close city"},
		domain.Transition{From: domain.StageAwaitingTo, To: domain.StageAwaitingFlightNumber, Trigger: "exact city"},
		domain.Transition{From: domain.StageAwaitingTo, To: domain.StageConfirmingCity, Trigger: "close city"},
		domain.Transition{From: domain.StageConfirmingCity, To: domain.StageAwaitingTo, Trigger: "yes (from)"},
		domain.Transition{From: domain.StageConfirmingCity, To: domain.StageAwaitingFlightNumber, Trigger: "yes (to)"},
		domain.Transition{From: domain.StageConfirmingCity, To: domain.StageAwaitingFrom, Trigger: "no (from)"},
		domain.Transition{From: domain.StageConfirmingCity, To: domain.StageAwaitingTo, Trigger: "no (to)"},
		domain.Transition{From: domain.StageAwaitingFlightNumber, To: domain.StageAwaitingDate, Trigger: "any"},
		domain.Transition{From: domain.StageAwaitingDate, To: domain.StageNone, Trigger: "YYYY-MM-DD"},
		domain.Transition{From: domain.StageAwaitingCancelID, To: domain.StageNone, Trigger: "booking id"},
		domain.Transition{From: domain.StageAwaitingStatusID, To: domain.StageNone, Trigger: "booking id"},
	)
}
