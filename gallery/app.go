// Package gallery wires the artwork store, navigation state, detail overlay
// and creation workspace into one application session.
package gallery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/atelier"
	"github.com/spetersoncode/lumina/overlay"
	"github.com/spetersoncode/lumina/store"
)

// App is the top-level application state for a gallery session.
type App struct {
	critic  lumina.Critic
	encoder lumina.Encoder
	logger  *slog.Logger

	store     *store.Store
	overlay   *overlay.Overlay
	workspace *atelier.Workspace

	mu   sync.RWMutex
	view lumina.ViewState
}

type options struct {
	seed    []lumina.Artwork
	limiter *rate.Limiter
	clock   func() time.Time
	logger  *slog.Logger
}

// Option configures an App.
type Option func(*options)

// WithSeed replaces the default seed artworks.
func WithSeed(seed ...lumina.Artwork) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLimiter rate limits image generation.
func WithLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithClock sets the time source for saved artworks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New creates an App on the Gallery view with the seed artworks loaded.
func New(critic lumina.Critic, synth lumina.Synthesizer, enc lumina.Encoder, opts ...Option) *App {
	o := options{seed: store.Seed(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s := store.New(o.seed...)
	wsOpts := []atelier.Option{atelier.WithLogger(o.logger.With("component", "atelier"))}
	if o.limiter != nil {
		wsOpts = append(wsOpts, atelier.WithLimiter(o.limiter))
	}
	if o.clock != nil {
		wsOpts = append(wsOpts, atelier.WithClock(o.clock))
	}

	return &App{
		critic:    critic,
		encoder:   enc,
		logger:    o.logger,
		store:     s,
		overlay:   overlay.New(critic, enc, overlay.WithLogger(o.logger.With("component", "overlay"))),
		workspace: atelier.New(synth, s, wsOpts...),
		view:      lumina.ViewGallery,
	}
}

// View returns the active screen.
func (a *App) View() lumina.ViewState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

// Navigate switches the active screen.
func (a *App) Navigate(v lumina.ViewState) error {
	if _, err := lumina.ParseViewState(string(v)); err != nil {
		return err
	}
	a.mu.Lock()
	prev := a.view
	a.view = v
	a.mu.Unlock()
	if prev != v {
		a.logger.Debug("navigated", "from", prev, "to", v)
	}
	return nil
}

// Artworks returns every artwork in the session.
func (a *App) Artworks() []lumina.Artwork {
	return a.store.List()
}

// Artwork returns a single artwork by id.
func (a *App) Artwork(id string) (lumina.Artwork, error) {
	return a.store.Get(id)
}

// Overlay returns the detail overlay.
func (a *App) Overlay() *overlay.Overlay {
	return a.overlay
}

// Workspace returns the creation workspace.
func (a *App) Workspace() *atelier.Workspace {
	return a.workspace
}

// OpenArtwork opens the detail overlay for the artwork with the given id.
func (a *App) OpenArtwork(ctx context.Context, id string) (*overlay.Run, error) {
	art, err := a.store.Get(id)
	if err != nil {
		return nil, err
	}
	return a.overlay.Open(ctx, art), nil
}

// Critique analyzes an artwork without touching the overlay. Encoding
// failures are returned; critique failures yield the fallback analysis.
func (a *App) Critique(ctx context.Context, id string) (lumina.AnalysisResult, error) {
	art, err := a.store.Get(id)
	if err != nil {
		return lumina.AnalysisResult{}, err
	}
	payload, err := overlay.ImagePayload(ctx, a.encoder, art.URL)
	if err != nil {
		return lumina.AnalysisResult{}, err
	}
	return a.critic.Analyze(ctx, payload), nil
}

// Generate produces a new preview in the creation workspace.
func (a *App) Generate(ctx context.Context, prompt string) (string, error) {
	return a.workspace.Generate(ctx, prompt)
}
