package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/google/uuid"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/agui"
	"github.com/spetersoncode/lumina/atelier"
	"github.com/spetersoncode/lumina/event"
	"github.com/spetersoncode/lumina/gallery"
)

// Handler serves the gallery JSON and SSE API.
type Handler struct {
	app    *gallery.App
	logger *slog.Logger
}

// NewHandler creates a handler for app.
func NewHandler(app *gallery.App, logger *slog.Logger) *Handler {
	return &Handler{app: app, logger: logger}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/view", h.getView)
	mux.HandleFunc("PUT /api/view", h.putView)
	mux.HandleFunc("GET /api/artworks", h.listArtworks)
	mux.HandleFunc("GET /api/artworks/{id}", h.getArtwork)
	mux.HandleFunc("GET /api/artworks/{id}/critique", h.streamCritique)
	mux.HandleFunc("GET /api/overlay", h.getOverlay)
	mux.HandleFunc("DELETE /api/overlay", h.closeOverlay)
	mux.HandleFunc("GET /api/atelier", h.getWorkspace)
	mux.HandleFunc("POST /api/atelier/generate", h.generate)
	mux.HandleFunc("POST /api/atelier/acknowledge", h.acknowledge)
	mux.HandleFunc("POST /api/atelier/save", h.save)
	mux.HandleFunc("GET /api/atelier/download", h.download)
}

// requestLogger creates a request-scoped logger.
func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	return h.logger.With(
		"request_id", uuid.NewString(),
		"method", r.Method,
		"path", r.URL.Path,
	)
}

type viewResponse struct {
	View  lumina.ViewState `json:"view"`
	Label string           `json:"label"`
}

func (h *Handler) getView(w http.ResponseWriter, r *http.Request) {
	v := h.app.View()
	writeJSON(w, http.StatusOK, viewResponse{View: v, Label: v.Label()})
}

func (h *Handler) putView(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	var req struct {
		View string `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	v, err := lumina.ParseViewState(strings.ToUpper(req.View))
	if err != nil {
		log.Warn("invalid view", "view", req.View)
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := h.app.Navigate(v); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{View: v, Label: v.Label()})
}

func (h *Handler) listArtworks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Artworks())
}

func (h *Handler) getArtwork(w http.ResponseWriter, r *http.Request) {
	art, err := h.app.Artwork(r.PathValue("id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, art)
}

// streamCritique opens the overlay for an artwork and streams its lifecycle
// as AG-UI events.
func (h *Handler) streamCritique(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.PathValue("id")
	log := h.requestLogger(r).With("artwork_id", id)

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	run, err := h.app.OpenArtwork(r.Context(), id)
	if err != nil {
		log.Warn("cannot open artwork", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	log = log.With("run_id", run.ID())
	log.Info("critique stream started")

	setSSEHeaders(w)
	mapper := agui.NewMapper("", run.ID())
	count, err := streamEvents(w, flusher, mapper.MapStream(run.Events()), log)
	if err != nil {
		log.Error("critique stream failed", "error", err, "events_sent", count)
		return
	}
	log.Info("critique stream completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", count,
	)
}

func (h *Handler) getOverlay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Overlay().Snapshot())
}

func (h *Handler) closeOverlay(w http.ResponseWriter, r *http.Request) {
	h.app.Overlay().Close()
	writeJSON(w, http.StatusOK, h.app.Overlay().Snapshot())
}

func (h *Handler) getWorkspace(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Workspace().Snapshot())
}

// generate runs a synthesis. Clients that accept text/event-stream receive
// the lifecycle as AG-UI events; others receive the final snapshot.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := h.requestLogger(r)

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, lumina.ErrEmptyPrompt.Error())
		return
	}

	ws := h.app.Workspace()
	if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		_, err := ws.Generate(r.Context(), req.Prompt)
		if err != nil {
			status := statusFor(err)
			if status >= 500 {
				log.Error("generation failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
			} else {
				log.Warn("generation rejected", "error", err)
			}
			writeJSON(w, status, generateResponse{Snapshot: ws.Snapshot(), Error: err.Error()})
			return
		}
		log.Info("generation completed", "duration_ms", time.Since(start).Milliseconds())
		writeJSON(w, http.StatusOK, generateResponse{Snapshot: ws.Snapshot()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events := event.NewChannel()
	var genErr error
	go func() {
		defer close(events)
		_, genErr = ws.GenerateWithEvents(r.Context(), req.Prompt, events)
	}()

	setSSEHeaders(w)
	mapper := agui.NewMapper("", "")
	count, err := streamEvents(w, flusher, mapper.MapStream(events), log)
	if err != nil {
		log.Error("generation stream failed", "error", err, "events_sent", count)
		return
	}
	// Rejected before the run started, so nothing was emitted.
	if count == 0 && genErr != nil {
		writeSSE(w, flusher, mapper.RunError(genErr))
		count++
	}
	log.Info("generation stream completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"events_sent", count,
	)
}

type generateResponse struct {
	atelier.Snapshot
	Error string `json:"error,omitempty"`
}

func (h *Handler) acknowledge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Workspace().Acknowledge())
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	art, err := h.app.Workspace().Save()
	if err != nil {
		log.Warn("save failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	log.Info("artwork saved", "artwork_id", art.ID)
	writeJSON(w, http.StatusCreated, art)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	dl, err := h.app.Workspace().Download()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.Write(dl.Data)
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lumina.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lumina.ErrBusy), errors.Is(err, lumina.ErrNoPreview), errors.Is(err, lumina.ErrDuplicateArtwork):
		return http.StatusConflict
	case lumina.IsUserInput(err):
		return http.StatusBadRequest
	case lumina.IsTransient(err):
		if lumina.StatusCodeOf(err) == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// streamEvents writes every event from stream. On a write error the rest of
// the stream is drained in the background.
func streamEvents(w http.ResponseWriter, flusher http.Flusher, stream <-chan aguievents.Event, log *slog.Logger) (int, error) {
	var count int
	for ev := range stream {
		count++
		log.Debug("sending SSE event", "event_type", ev.Type(), "event_num", count)
		if err := writeSSE(w, flusher, ev); err != nil {
			go func() {
				for range stream {
				}
			}()
			return count, err
		}
	}
	return count, nil
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// Write SSE format: event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Mcp-Session-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// healthHandler returns a simple health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
