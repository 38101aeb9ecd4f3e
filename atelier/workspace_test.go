package atelier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/event"
	"github.com/spetersoncode/lumina/store"
)

var (
	pngBytes   = []byte("\x89PNG\r\n\x1a\npreview")
	previewURI = lumina.PNGDataURI(pngBytes)
	fixedNow   = time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okSynth(uri string) lumina.Synthesizer {
	return lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
		return uri, nil
	})
}

func failingSynth(err error) lumina.Synthesizer {
	return lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", err
	})
}

func newWorkspace(synth lumina.Synthesizer, opts ...Option) (*Workspace, *store.Store) {
	s := store.New()
	opts = append([]Option{WithClock(fixedClock), WithLogger(quietLogger())}, opts...)
	return New(synth, s, opts...), s
}

func TestWorkspace_Generate(t *testing.T) {
	t.Run("success keeps prompt and preview together", func(t *testing.T) {
		w, _ := newWorkspace(okSynth(previewURI))

		got, err := w.Generate(context.Background(), "a red fox in snow")

		require.NoError(t, err)
		assert.Equal(t, previewURI, got)
		assert.Equal(t, Snapshot{State: Preview, Prompt: "a red fox in snow", Preview: previewURI}, w.Snapshot())
	})

	t.Run("failure preserves the prompt and sets the message", func(t *testing.T) {
		w, _ := newWorkspace(failingSynth(lumina.ErrNoImageData))

		got, err := w.Generate(context.Background(), "a red fox in snow")

		assert.ErrorIs(t, err, lumina.ErrNoImageData)
		assert.Empty(t, got)
		assert.Equal(t, Snapshot{State: Failed, Prompt: "a red fox in snow", Message: FailureMessage}, w.Snapshot())
	})

	t.Run("blank prompts are rejected without calling the synthesizer", func(t *testing.T) {
		called := false
		w, _ := newWorkspace(lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
			called = true
			return previewURI, nil
		}))

		_, err := w.Generate(context.Background(), "  \n ")

		assert.ErrorIs(t, err, lumina.ErrEmptyPrompt)
		assert.True(t, lumina.IsUserInput(err))
		assert.False(t, called)
		assert.Equal(t, Idle, w.Snapshot().State)
	})

	t.Run("a second generation while one is in flight is busy", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		w, _ := newWorkspace(lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
			close(started)
			<-release
			return previewURI, nil
		}))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Generate(context.Background(), "first")
		}()
		<-started

		assert.Equal(t, Generating, w.Snapshot().State)
		_, err := w.Generate(context.Background(), "second")
		assert.ErrorIs(t, err, lumina.ErrBusy)

		close(release)
		wg.Wait()
		assert.Equal(t, "first", w.Snapshot().Prompt)
	})

	t.Run("a new generation replaces the preview", func(t *testing.T) {
		second := lumina.PNGDataURI([]byte("second"))
		calls := 0
		w, _ := newWorkspace(lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
			calls++
			if calls == 1 {
				return previewURI, nil
			}
			return second, nil
		}))

		_, err := w.Generate(context.Background(), "one")
		require.NoError(t, err)
		_, err = w.Generate(context.Background(), "two")
		require.NoError(t, err)

		assert.Equal(t, Snapshot{State: Preview, Prompt: "two", Preview: second}, w.Snapshot())
	})

	t.Run("limiter denial is transient and leaves state alone", func(t *testing.T) {
		calls := 0
		w, _ := newWorkspace(lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
			calls++
			return previewURI, nil
		}), WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))

		_, err := w.Generate(context.Background(), "first")
		require.NoError(t, err)
		before := w.Snapshot()

		_, err = w.Generate(context.Background(), "second")

		assert.True(t, lumina.IsTransient(err))
		assert.Equal(t, 429, lumina.StatusCodeOf(err))
		assert.Equal(t, 1, calls)
		assert.Equal(t, before, w.Snapshot())
	})
}

func TestWorkspace_GenerateWithEvents(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w, _ := newWorkspace(okSynth(previewURI))
		ch := event.NewChannel()

		_, err := w.GenerateWithEvents(context.Background(), "x", ch)
		require.NoError(t, err)
		close(ch)

		var types []event.Type
		for ev := range ch {
			types = append(types, ev.Type)
		}
		assert.Equal(t, []event.Type{
			event.RunStart, event.StateSnapshot, event.StepStart, event.StepEnd, event.StateSnapshot, event.RunEnd,
		}, types)
	})

	t.Run("failure ends with a run error", func(t *testing.T) {
		w, _ := newWorkspace(failingSynth(errors.New("quota")))
		ch := event.NewChannel()

		_, err := w.GenerateWithEvents(context.Background(), "x", ch)
		require.Error(t, err)
		close(ch)

		var last event.Event
		for ev := range ch {
			last = ev
		}
		assert.Equal(t, event.RunError, last.Type)
		assert.EqualError(t, last.Error, "quota")
	})
}

func TestWorkspace_Acknowledge(t *testing.T) {
	t.Run("failed returns to idle with the prompt kept", func(t *testing.T) {
		w, _ := newWorkspace(failingSynth(errors.New("boom")))
		w.Generate(context.Background(), "retry me")

		snap := w.Acknowledge()

		assert.Equal(t, Snapshot{State: Idle, Prompt: "retry me"}, snap)
	})

	t.Run("no effect outside failed", func(t *testing.T) {
		w, _ := newWorkspace(okSynth(previewURI))
		w.Generate(context.Background(), "keep")

		assert.Equal(t, Preview, w.Acknowledge().State)
	})
}

func TestWorkspace_Save(t *testing.T) {
	t.Run("long prompt becomes a truncated title", func(t *testing.T) {
		w, s := newWorkspace(okSynth(previewURI))
		_, err := w.Generate(context.Background(), "Sunset over a futuristic skyline with golden hour lighting")
		require.NoError(t, err)

		art, err := w.Save()

		require.NoError(t, err)
		assert.Equal(t, "Sunset over a futuri...", art.Title)
		assert.Equal(t, "1772625600000", art.ID)
		assert.Equal(t, lumina.GeneratedArtist, art.Artist)
		assert.Equal(t, "2026", art.Year)
		assert.True(t, art.Generated)
		assert.Equal(t, previewURI, art.URL)

		stored, err := s.Get(art.ID)
		require.NoError(t, err)
		assert.Equal(t, art, stored)
		assert.Equal(t, Snapshot{State: Idle}, w.Snapshot())
	})

	t.Run("short prompt is kept as the title", func(t *testing.T) {
		w, _ := newWorkspace(okSynth(previewURI))
		w.Generate(context.Background(), "Quiet pond")

		art, err := w.Save()

		require.NoError(t, err)
		assert.Equal(t, "Quiet pond", art.Title)
	})

	t.Run("requires a preview", func(t *testing.T) {
		w, s := newWorkspace(failingSynth(errors.New("boom")))
		w.Generate(context.Background(), "x")

		_, err := w.Save()

		assert.ErrorIs(t, err, lumina.ErrNoPreview)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("store rejection keeps the preview", func(t *testing.T) {
		w, s := newWorkspace(okSynth(previewURI))
		require.NoError(t, s.Append(lumina.Artwork{ID: "1772625600000"}))
		w.Generate(context.Background(), "x")

		_, err := w.Save()

		assert.ErrorIs(t, err, lumina.ErrDuplicateArtwork)
		assert.Equal(t, Preview, w.Snapshot().State)
	})
}

func TestWorkspace_Download(t *testing.T) {
	t.Run("returns decoded png bytes without touching the store", func(t *testing.T) {
		w, s := newWorkspace(okSynth(previewURI))
		w.Generate(context.Background(), "x")
		before := w.Snapshot()

		dl, err := w.Download()

		require.NoError(t, err)
		assert.Equal(t, "lumina-art-1772625600000.png", dl.Filename)
		assert.Equal(t, "image/png", dl.ContentType)
		assert.Equal(t, pngBytes, dl.Data)
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, before, w.Snapshot())
	})

	t.Run("requires a preview", func(t *testing.T) {
		w, _ := newWorkspace(okSynth(previewURI))

		_, err := w.Download()

		assert.ErrorIs(t, err, lumina.ErrNoPreview)
	})
}
