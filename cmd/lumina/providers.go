package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/fetch"
	"github.com/spetersoncode/lumina/internal/provider/anthropic"
	"github.com/spetersoncode/lumina/internal/provider/google"
	"github.com/spetersoncode/lumina/internal/provider/openai"
)

// providers holds the gateway implementations selected by configuration.
type providers struct {
	critic  lumina.Critic
	synth   lumina.Synthesizer
	encoder lumina.Encoder
	limiter *rate.Limiter
}

func buildProviders(ctx context.Context, cfg *Config, logger *slog.Logger) (*providers, error) {
	p := &providers{encoder: buildEncoder(cfg, logger)}

	if cfg.CriticProvider == "google" || cfg.SynthProvider == "google" {
		g, err := newGoogleClient(ctx, cfg, logger)
		if err != nil {
			// Without a key every call fails; critiques fall back and generations error.
			logger.Warn("google client unavailable", "error", err)
			p.critic = unavailableCritic(err, logger)
			p.synth = unavailableSynth(err)
		} else {
			p.critic = g
			p.synth = g
		}
	}

	switch cfg.CriticProvider {
	case "openai":
		p.critic = newOpenAIClient(cfg, logger)
	case "anthropic":
		var opts []anthropic.ClientOption
		if cfg.CriticModel != "" {
			opts = append(opts, anthropic.WithModel(anthropic.ChatModel(cfg.CriticModel)))
		}
		opts = append(opts, anthropic.WithLogger(logger.With("provider", "anthropic")))
		p.critic = anthropic.New(cfg.AnthropicKey, opts...)
	}

	if cfg.SynthProvider == "openai" {
		p.synth = newOpenAIClient(cfg, logger)
	}

	if p.critic == nil || p.synth == nil {
		return nil, fmt.Errorf("no provider for critic %q or synthesizer %q", cfg.CriticProvider, cfg.SynthProvider)
	}

	if cfg.GenerateInterval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(cfg.GenerateInterval), 1)
	}
	return p, nil
}

func newGoogleClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*google.Client, error) {
	opts := []google.ClientOption{google.WithLogger(logger.With("provider", "google"))}
	if cfg.CriticProvider == "google" && cfg.CriticModel != "" {
		opts = append(opts, google.WithCritiqueModel(google.ChatModel(cfg.CriticModel)))
	}
	if cfg.SynthProvider == "google" && cfg.ImageModel != "" {
		opts = append(opts, google.WithImageModel(google.ImageModel(cfg.ImageModel)))
	}

	if cfg.UsesVertex() {
		return google.NewVertex(ctx, cfg.VertexProject, cfg.VertexLocation, opts...)
	}
	if cfg.GoogleKey == "" {
		return nil, fmt.Errorf("API_KEY is not set")
	}
	return google.New(ctx, cfg.GoogleKey, opts...)
}

func newOpenAIClient(cfg *Config, logger *slog.Logger) *openai.Client {
	opts := []openai.ClientOption{openai.WithLogger(logger.With("provider", "openai"))}
	if cfg.CriticProvider == "openai" && cfg.CriticModel != "" {
		opts = append(opts, openai.WithCritiqueModel(openai.ChatModel(cfg.CriticModel)))
	}
	if cfg.SynthProvider == "openai" && cfg.ImageModel != "" {
		opts = append(opts, openai.WithImageModel(openai.ImageModel(cfg.ImageModel)))
	}
	return openai.New(cfg.OpenAIKey, opts...)
}

func buildEncoder(cfg *Config, logger *slog.Logger) *fetch.Encoder {
	opts := []fetch.Option{
		fetch.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		fetch.WithLogger(logger.With("component", "fetch")),
	}
	if !cfg.BlockPrivateFetch {
		opts = append(opts, fetch.AllowPrivateHosts())
	}
	if cfg.FetchCacheTTL > 0 {
		opts = append(opts, fetch.WithCache(cfg.FetchCacheTTL))
	}
	return fetch.New(opts...)
}

func unavailableCritic(cause error, logger *slog.Logger) lumina.Critic {
	return lumina.CriticFunc(func(ctx context.Context, imageBase64 string) lumina.AnalysisResult {
		logger.Error("analysis failed", "error", cause)
		return lumina.FallbackAnalysis()
	})
}

func unavailableSynth(cause error) lumina.Synthesizer {
	return lumina.SynthesizerFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", lumina.NewPermanentError("image generation unavailable", 0, cause)
	})
}
