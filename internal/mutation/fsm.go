// Package mutation manages UI-visible state for optimistic mutations: the
// change is applied before the server confirms and deterministically rolled
// back on failure. Each mutable resource owns one controller; the controller
// is an explicit finite-state machine driven by messages from the network
// completion event.
package mutation

// State is the lifecycle phase of a resource's mutation FSM.
type State int

const (
	// StateIdle accepts triggers.
	StateIdle State = iota
	// StatePending has a request in flight; further triggers are ignored.
	StatePending
	// StateCommitted is the terminal phase of a confirmed mutation; the
	// next trigger observes it as idle.
	StateCommitted
	// StateRolledBack is the terminal phase of a failed mutation.
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// settled reports whether the FSM accepts a new trigger.
func (s State) settled() bool {
	return s != StatePending
}
