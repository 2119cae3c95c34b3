package domain

// StateDiff represents the changes between two states.
// It is logged by the transport adapters at debug level.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Stage is set when the stage changed.
	Stage *Stage `json:"stage,omitempty"`

	// Pending contains only changed fields, keyed by their JSON name.
	// Cleared fields are present with an empty value.
	Pending map[string]string `json:"pending,omitempty"`
}

// Empty reports whether the diff carries no changes.
func (d *StateDiff) Empty() bool {
	return d == nil || (d.Stage == nil && len(d.Pending) == 0)
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	var before Pending
	if oldState != nil {
		before = oldState.Pending
	}
	if oldState == nil || oldState.Stage != newState.Stage {
		stage := newState.Stage
		diff.Stage = &stage
	}

	after := newState.Pending
	fields := []struct {
		key      string
		old, new string
	}{
		{"origin", before.Origin, after.Origin},
		{"destination", before.Destination, after.Destination},
		{"flight_number", before.FlightNumber, after.FlightNumber},
		{"suggested_city", before.SuggestedCity, after.SuggestedCity},
		{"suggestion_for", string(before.SuggestionFor), string(after.SuggestionFor)},
	}
	for _, f := range fields {
		if f.old == f.new {
			continue
		}
		if diff.Pending == nil {
			diff.Pending = make(map[string]string)
		}
		diff.Pending[f.key] = f.new
	}

	if diff.Empty() {
		return nil
	}
	return diff
}
