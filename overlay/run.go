package overlay

import "github.com/spetersoncode/lumina/event"

// Run is a single overlay lifecycle started by Open.
type Run struct {
	id         string
	generation uint64
	events     chan event.Event
	done       chan struct{}

	// written by the worker before done is closed
	result  Snapshot
	applied bool
}

// ID returns the run identifier used in logs and event streams.
func (r *Run) ID() string { return r.id }

// Generation returns the overlay generation this run belongs to.
func (r *Run) Generation() uint64 { return r.generation }

// Events returns the lifecycle event stream. It closes when the run ends.
// Events are dropped if the buffer fills up.
func (r *Run) Events() <-chan event.Event { return r.events }

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Result returns the outcome the run produced and whether it was applied
// to the overlay. It is only valid after Done is closed.
func (r *Run) Result() (Snapshot, bool) {
	<-r.done
	return r.result, r.applied
}
