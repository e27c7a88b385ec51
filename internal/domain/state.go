package domain

// State is an evaluation lifecycle state.
// The non-deleted states form a strict total order used for before/after checks;
// StateDeleted is terminal and sits outside that order.
type State string

const (
	// StatePartial marks an evaluation that is still being created.
	StatePartial State = "Partial"

	// StateInQueue marks a fully created evaluation waiting for its start date.
	StateInQueue State = "InQueue"

	// StateActive marks an evaluation that is accepting responses.
	StateActive State = "Active"

	// StateGracePeriod marks an evaluation past its due date but before its stop date.
	StateGracePeriod State = "GracePeriod"

	// StateClosed marks an evaluation that no longer accepts responses.
	StateClosed State = "Closed"

	// StateViewable marks an evaluation whose results may be viewed.
	StateViewable State = "Viewable"

	// StateDeleted marks a removed evaluation. No rule advances or reverts it.
	StateDeleted State = "Deleted"
)

// stateOrder is the lifecycle progression, earliest first.
var stateOrder = [...]State{
	StatePartial,
	StateInQueue,
	StateActive,
	StateGracePeriod,
	StateClosed,
	StateViewable,
}

// OrderedStates returns the comparable lifecycle states, earliest first.
func OrderedStates() []State {
	out := make([]State, len(stateOrder))
	copy(out, stateOrder[:])
	return out
}

// Position returns the index of s within the lifecycle order.
// An unset state sorts as StatePartial since evaluations start there.
// StateDeleted and unknown values have no position.
func (s State) Position() (int, bool) {
	if s == "" {
		return 0, true
	}
	for i, st := range stateOrder {
		if st == s {
			return i, true
		}
	}
	return -1, false
}

// IsValid reports whether s is one of the known states, including StateDeleted.
func (s State) IsValid() bool {
	if s == StateDeleted {
		return true
	}
	_, ok := s.Position()
	return ok && s != ""
}

// IsDeleted reports whether s is the terminal deleted state.
func (s State) IsDeleted() bool { return s == StateDeleted }

// IsAfter reports whether s comes after ref in the lifecycle.
// When orEqual is true, s == ref also satisfies the check.
// Returns false when either side has no position.
func (s State) IsAfter(ref State, orEqual bool) bool {
	si, ok1 := s.Position()
	ri, ok2 := ref.Position()
	if !ok1 || !ok2 {
		return false
	}
	if orEqual {
		return si >= ri
	}
	return si > ri
}

// IsBefore reports whether s comes before ref in the lifecycle.
// When orEqual is true, s == ref also satisfies the check.
// Returns false when either side has no position.
func (s State) IsBefore(ref State, orEqual bool) bool {
	si, ok1 := s.Position()
	ri, ok2 := ref.Position()
	if !ok1 || !ok2 {
		return false
	}
	if orEqual {
		return si <= ri
	}
	return si < ri
}

// String returns the state name.
func (s State) String() string { return string(s) }
