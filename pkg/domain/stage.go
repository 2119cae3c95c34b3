package domain

// Stage identifies where a conversation currently is.
type Stage string

const (
	StageNone                 Stage = ""                       // Idle, no flow in progress
	StageAwaitingFrom         Stage = "awaiting_from"          // Waiting for the departure city
	StageAwaitingTo           Stage = "awaiting_to"            // Waiting for the destination city
	StageConfirmingCity       Stage = "confirming_city"        // Waiting for yes/no on a city suggestion
	StageAwaitingFlightNumber Stage = "awaiting_flight_number" // Waiting for the flight number
	StageAwaitingDate         Stage = "awaiting_date"          // Waiting for a YYYY-MM-DD date
	StageAwaitingCancelID     Stage = "awaiting_cancel_id"     // Waiting for the booking ID to cancel
	StageAwaitingStatusID     Stage = "awaiting_status_id"     // Waiting for the booking ID to look up
)

// Stages lists every known stage, idle first.
var Stages = []Stage{
	StageNone,
	StageAwaitingFrom,
	StageAwaitingTo,
	StageConfirmingCity,
	StageAwaitingFlightNumber,
	StageAwaitingDate,
	StageAwaitingCancelID,
	StageAwaitingStatusID,
}

// IsIdle reports whether no flow is in progress.
func (s Stage) IsIdle() bool {
	return s == StageNone
}

// Label returns a printable name. The idle stage is stored as the empty
// string, which is awkward in logs and metric labels.
func (s Stage) Label() string {
	if s == StageNone {
		return "none"
	}
	return string(s)
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// CityRole names which leg of the trip a city suggestion belongs to.
type CityRole string

const (
	RoleFrom CityRole = "from"
	RoleTo   CityRole = "to"
)

// Noun returns the word used in prompts for this role.
func (r CityRole) Noun() string {
	if r == RoleTo {
		return "destination"
	}
	return "departure"
}

// Stage returns the stage that collects a city for this role.
func (r CityRole) Stage() Stage {
	if r == RoleTo {
		return StageAwaitingTo
	}
	return StageAwaitingFrom
}

// Transition is one edge of the dialogue state machine, for documentation
// and diagrams.
type Transition struct {
	From    Stage  `json:"from"`
	To      Stage  `json:"to"`
	Trigger string `json:"trigger"`
	// Command marks keyword commands that interrupt the From stage.
	Command bool `json:"command,omitempty"`
}
