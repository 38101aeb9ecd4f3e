// Package overlay runs the detail overlay lifecycle: encode the selected
// artwork, request a critique, and publish the result.
//
// Each Open starts a fresh lifecycle and retires the previous one. A
// generation counter guards every state change, so a resolution that
// arrives after its lifecycle was retired is discarded. Retiring never
// aborts the in-flight call.
package overlay

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/event"
)

// State is the lifecycle state of the overlay.
type State string

const (
	Idle        State = "idle"
	Loading     State = "loading"
	Success     State = "success"
	Unavailable State = "unavailable"
)

// UnavailableMessage is shown when the artwork image could not be encoded.
const UnavailableMessage = "Analysis unavailable."

// Snapshot is a point-in-time view of the overlay.
type Snapshot struct {
	ArtworkID  string                 `json:"artworkId,omitempty"`
	State      State                  `json:"state"`
	Analysis   *lumina.AnalysisResult `json:"analysis,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Generation uint64                 `json:"generation"`
}

// Overlay owns the detail overlay state for one session.
type Overlay struct {
	critic  lumina.Critic
	encoder lumina.Encoder
	logger  *slog.Logger

	mu         sync.Mutex
	generation uint64
	current    Snapshot
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Overlay) {
		o.logger = l
	}
}

// New creates an idle overlay.
func New(critic lumina.Critic, encoder lumina.Encoder, opts ...Option) *Overlay {
	o := &Overlay{
		critic:  critic,
		encoder: encoder,
		logger:  slog.Default(),
		current: Snapshot{State: Idle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Snapshot returns the current overlay state.
func (o *Overlay) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Close retires the active lifecycle and resets the overlay to Idle.
func (o *Overlay) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generation++
	o.current = Snapshot{State: Idle, Generation: o.generation}
}

// Open retires any active lifecycle and starts a new one for art.
// The work runs in the background on a context that ignores ctx's
// cancellation; use the returned Run to follow it.
func (o *Overlay) Open(ctx context.Context, art lumina.Artwork) *Run {
	o.mu.Lock()
	o.generation++
	gen := o.generation
	o.current = Snapshot{ArtworkID: art.ID, State: Loading, Generation: gen}
	loading := o.current
	o.mu.Unlock()

	r := &Run{
		id:         "run-" + uuid.NewString(),
		generation: gen,
		events:     event.NewChannel(),
		done:       make(chan struct{}),
	}
	event.Emit(r.events, event.Event{Type: event.RunStart, RunID: r.id})
	event.Emit(r.events, event.Event{Type: event.StateSnapshot, RunID: r.id, State: loading})

	go o.run(context.WithoutCancel(ctx), r, art)
	return r
}

func (o *Overlay) run(ctx context.Context, r *Run, art lumina.Artwork) {
	defer close(r.done)
	defer close(r.events)

	start := time.Now()
	logger := o.logger.With("run_id", r.id, "artwork_id", art.ID)

	event.Emit(r.events, event.Event{Type: event.StepStart, RunID: r.id, StepName: event.StepEncode})
	payload, err := ImagePayload(ctx, o.encoder, art.URL)
	event.Emit(r.events, event.Event{Type: event.StepEnd, RunID: r.id, StepName: event.StepEncode})

	var next Snapshot
	if err != nil {
		logger.Error("encoding artwork failed", "error", err)
		next = Snapshot{ArtworkID: art.ID, State: Unavailable, Message: UnavailableMessage, Generation: r.generation}
	} else {
		event.Emit(r.events, event.Event{Type: event.StepStart, RunID: r.id, StepName: event.StepCritique})
		result := o.critic.Analyze(ctx, payload)
		event.Emit(r.events, event.Event{Type: event.StepEnd, RunID: r.id, StepName: event.StepCritique})
		next = Snapshot{ArtworkID: art.ID, State: Success, Analysis: &result, Generation: r.generation}
	}

	r.result = next
	if o.apply(next) {
		r.applied = true
		event.Emit(r.events, event.Event{Type: event.StateSnapshot, RunID: r.id, State: next})
	} else {
		logger.Debug("discarding stale overlay result", "state", next.State)
	}
	event.Emit(r.events, event.Event{Type: event.RunEnd, RunID: r.id})

	logger.Info("overlay lifecycle finished",
		"state", next.State,
		"applied", r.applied,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// apply stores s if its generation is still current.
func (o *Overlay) apply(s Snapshot) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s.Generation != o.generation {
		return false
	}
	o.current = s
	return true
}

// ImagePayload returns the raw base64 image for url. Data URIs are used
// directly; remote URLs go through enc.
func ImagePayload(ctx context.Context, enc lumina.Encoder, url string) (string, error) {
	if lumina.IsDataURI(url) {
		return lumina.DataURIPayload(url), nil
	}
	return enc.Base64(ctx, url)
}
