// Package event defines the lifecycle events emitted while a gallery request
// runs: run start and end, the encode, critique and synthesis steps, and
// state snapshots. The event types are designed for 1:1 mapping with the
// AG-UI protocol.
package event

import "time"

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a lifecycle begins.
	RunStart Type = "run_start"

	// RunEnd fires when a lifecycle reaches a terminal state.
	RunEnd Type = "run_end"

	// RunError fires when a lifecycle fails. Critique lifecycles never emit it;
	// a failed critique still ends with a fallback result.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	StepStart Type = "step_start"
	StepEnd   Type = "step_end"
)

// State events
const (
	// StateSnapshot carries the full lifecycle state after a transition.
	StateSnapshot Type = "state_snapshot"
)

// Step names.
const (
	StepEncode    = "encode"
	StepCritique  = "critique"
	StepSynthesis = "synthesis"
)

// Event represents an observable occurrence during a lifecycle.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID identifies the lifecycle instance.
	RunID string

	// StepName identifies the step for StepStart and StepEnd events.
	StepName string

	// State holds the snapshot for StateSnapshot events.
	State any

	// Error contains the error for RunError events.
	Error error

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel without blocking.
// Events are dropped when the channel is full.
func Emit(ch chan<- Event, e Event) {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
