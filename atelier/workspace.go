// Package atelier runs the creation workspace: prompt in, preview out, and
// an optional save into the artwork store.
package atelier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/event"
)

// State is the lifecycle state of the workspace.
type State string

const (
	Idle       State = "idle"
	Generating State = "generating"
	Preview    State = "preview"
	Failed     State = "failed"
)

// FailureMessage is shown to the user when a generation fails.
const FailureMessage = "Failed to generate art. Please try again."

// Appender receives saved artworks.
type Appender interface {
	Append(lumina.Artwork) error
}

// Snapshot is a point-in-time view of the workspace.
type Snapshot struct {
	State   State  `json:"state"`
	Prompt  string `json:"prompt"`
	Preview string `json:"preview,omitempty"`
	Message string `json:"message,omitempty"`
}

// Download is a preview image ready to be written to a local file.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Workspace holds the prompt and preview for one session.
type Workspace struct {
	synth   lumina.Synthesizer
	store   Appender
	now     func() time.Time
	limiter *rate.Limiter
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	prompt  string
	preview string
	message string
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithClock sets the time source used for artwork ids and file names.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) {
		w.now = now
	}
}

// WithLimiter caps how often the synthesizer may be called.
func WithLimiter(l *rate.Limiter) Option {
	return func(w *Workspace) {
		w.limiter = l
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = l
	}
}

// New creates an idle workspace that saves into store.
func New(synth lumina.Synthesizer, store Appender, opts ...Option) *Workspace {
	w := &Workspace{
		synth:  synth,
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
		state:  Idle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Snapshot returns the current workspace state.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workspace) snapshotLocked() Snapshot {
	return Snapshot{State: w.state, Prompt: w.prompt, Preview: w.preview, Message: w.message}
}

// Generate synthesizes a preview for prompt and returns its data URI.
// Only one generation may be in flight; a second call returns ErrBusy.
// On failure the workspace moves to Failed with the prompt kept.
func (w *Workspace) Generate(ctx context.Context, prompt string) (string, error) {
	return w.GenerateWithEvents(ctx, prompt, nil)
}

// GenerateWithEvents is Generate with lifecycle events sent to events.
// A nil channel disables events.
func (w *Workspace) GenerateWithEvents(ctx context.Context, prompt string, events chan<- event.Event) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", lumina.NewUserInputError("generate", 0, lumina.ErrEmptyPrompt)
	}

	w.mu.Lock()
	if w.state == Generating {
		w.mu.Unlock()
		return "", lumina.NewUserInputError("generate", 409, lumina.ErrBusy)
	}
	if w.limiter != nil && !w.limiter.Allow() {
		w.mu.Unlock()
		return "", lumina.NewTransientError("generation rate limit exceeded", 429, nil)
	}
	w.state = Generating
	w.prompt = prompt
	w.preview = ""
	w.message = ""
	generating := w.snapshotLocked()
	w.mu.Unlock()

	runID := "run-" + uuid.NewString()
	logger := w.logger.With("run_id", runID)
	start := time.Now()

	event.Emit(events, event.Event{Type: event.RunStart, RunID: runID})
	event.Emit(events, event.Event{Type: event.StateSnapshot, RunID: runID, State: generating})
	event.Emit(events, event.Event{Type: event.StepStart, RunID: runID, StepName: event.StepSynthesis})
	uri, err := w.synth.Generate(ctx, prompt)
	event.Emit(events, event.Event{Type: event.StepEnd, RunID: runID, StepName: event.StepSynthesis})

	w.mu.Lock()
	if err != nil {
		w.state = Failed
		w.message = FailureMessage
	} else {
		w.state = Preview
		w.preview = uri
	}
	final := w.snapshotLocked()
	w.mu.Unlock()

	event.Emit(events, event.Event{Type: event.StateSnapshot, RunID: runID, State: final})
	if err != nil {
		logger.Error("generation failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		event.Emit(events, event.Event{Type: event.RunError, RunID: runID, Error: err})
		return "", err
	}
	logger.Info("generation finished", "duration_ms", time.Since(start).Milliseconds())
	event.Emit(events, event.Event{Type: event.RunEnd, RunID: runID})
	return uri, nil
}

// Acknowledge dismisses a failure and returns the workspace to Idle with
// the prompt kept for retry. It has no effect in other states.
func (w *Workspace) Acknowledge() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Failed {
		w.state = Idle
		w.message = ""
	}
	return w.snapshotLocked()
}

// Save turns the preview into an artwork, appends it to the store, and
// clears the workspace.
func (w *Workspace) Save() (lumina.Artwork, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Preview || w.preview == "" {
		return lumina.Artwork{}, lumina.NewUserInputError("save", 409, lumina.ErrNoPreview)
	}

	art := lumina.NewGeneratedArtwork(w.prompt, w.preview, w.now())
	if err := w.store.Append(art); err != nil {
		return lumina.Artwork{}, fmt.Errorf("save artwork: %w", err)
	}

	w.state = Idle
	w.prompt = ""
	w.preview = ""
	w.logger.Info("artwork saved", "artwork_id", art.ID, "title", art.Title)
	return art, nil
}

// Download returns the preview image as a PNG file. The workspace and the
// store are left unchanged.
func (w *Workspace) Download() (Download, error) {
	w.mu.Lock()
	preview := w.preview
	w.mu.Unlock()
	if preview == "" {
		return Download{}, lumina.NewUserInputError("download", 409, lumina.ErrNoPreview)
	}

	mime, data, err := lumina.DecodeDataURI(preview)
	if err != nil {
		return Download{}, err
	}
	return Download{
		Filename:    fmt.Sprintf("lumina-art-%d.png", w.now().UnixMilli()),
		ContentType: mime,
		Data:        data,
	}, nil
}
