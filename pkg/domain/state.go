package domain

import "time"

// Pending holds the booking fields collected so far.
// It is only meaningful while the session stage is not idle.
type Pending struct {
	Origin       string `json:"origin,omitempty" mapstructure:"origin"`
	Destination  string `json:"destination,omitempty" mapstructure:"destination"`
	FlightNumber string `json:"flight_number,omitempty" mapstructure:"flight_number"`

	// SuggestedCity is the correction offered while Stage == StageConfirmingCity.
	SuggestedCity string `json:"suggested_city,omitempty" mapstructure:"suggested_city"`
	// SuggestionFor tells which field the suggestion fills once confirmed.
	SuggestionFor CityRole `json:"suggestion_for,omitempty" mapstructure:"suggestion_for"`
}

// Set stores a confirmed city in the field named by role.
func (p *Pending) Set(role CityRole, city string) {
	if role == RoleTo {
		p.Destination = city
		return
	}
	p.Origin = city
}

// ClearSuggestion drops any outstanding city suggestion.
func (p *Pending) ClearSuggestion() {
	p.SuggestedCity = ""
	p.SuggestionFor = ""
}

// State represents the current snapshot of a conversation.
type State struct {
	// SessionID identifies the conversation (cookie, header or MCP argument).
	SessionID string `json:"session_id,omitempty"`

	// Stage is the current position in the dialogue.
	Stage Stage `json:"stage"`

	// Pending holds partially collected booking data.
	Pending Pending `json:"pending"`

	// Turns counts the messages processed in this session.
	Turns int `json:"turns"`

	UpdatedAt time.Time `json:"updated_at"`

	// Sealed carries the encrypted form of the whole state when a store
	// middleware seals it. Live states never set it.
	Sealed string `json:"sealed,omitempty"`
}

// NewState creates a clean, idle state for a session.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Stage:     StageNone,
	}
}

// Snapshot returns a copy of the state. Pending has no reference fields,
// so a value copy is enough.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// Reset returns the session to idle and forgets pending fields.
func (s *State) Reset() {
	s.Stage = StageNone
	s.Pending = Pending{}
}
