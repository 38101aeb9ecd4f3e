// Command lumina serves the Lumina gallery: browse artworks, stream AI
// critiques, and generate new pieces in the atelier.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	LUMINA_PORT                - Server port (default: 8080)
//	LUMINA_LOG_LEVEL           - debug, info, warn, error (default: info)
//	API_KEY                    - Gemini API key (GOOGLE_API_KEY also accepted)
//	OPENAI_API_KEY             - OpenAI API key
//	ANTHROPIC_API_KEY          - Anthropic API key
//	LUMINA_CRITIC_PROVIDER     - google, openai, or anthropic (default: google)
//	LUMINA_SYNTH_PROVIDER      - google or openai (default: google)
//	LUMINA_CRITIC_MODEL        - Critique model override
//	LUMINA_IMAGE_MODEL         - Image model override
//	LUMINA_VERTEX_PROJECT      - Run google models on Vertex AI
//	LUMINA_VERTEX_LOCATION     - Vertex AI location
//	LUMINA_FETCH_CACHE_TTL     - Cache fetched images (default: 0, disabled)
//	LUMINA_BLOCK_PRIVATE_FETCH - Refuse private image hosts (default: true)
//	LUMINA_GENERATE_INTERVAL   - Minimum time between generations (default: 0)
//	LUMINA_MCP                 - Serve MCP tools at /mcp (default: true)
//
// Usage:
//
//	API_KEY=... go run ./cmd/lumina
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/lumina/gallery"
	"github.com/spetersoncode/lumina/mcp"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	level, _ := parseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	p, err := buildProviders(ctx, cfg, logger)
	if err != nil {
		return err
	}

	appOpts := []gallery.Option{gallery.WithLogger(logger)}
	if p.limiter != nil {
		appOpts = append(appOpts, gallery.WithLimiter(p.limiter))
	}
	app := gallery.New(p.critic, p.synth, p.encoder, appOpts...)

	mux, err := newMux(app, cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("lumina starting",
			"addr", srv.Addr,
			"critic", cfg.CriticProvider,
			"synthesizer", cfg.SynthProvider,
			"mcp", cfg.EnableMCP,
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newMux(app *gallery.App, cfg *Config, logger *slog.Logger) (*http.ServeMux, error) {
	pages, err := NewPages(app, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	pages.Register(mux)
	NewHandler(app, logger).Register(mux)
	mux.HandleFunc("GET /health", healthHandler)

	if cfg.EnableMCP {
		mux.Handle("/mcp", server.NewStreamableHTTPServer(mcp.NewServer(app, mcp.WithName("lumina"))))
	}
	return mux, nil
}
