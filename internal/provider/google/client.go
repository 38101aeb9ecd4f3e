package google

import (
	"context"
	"log/slog"

	"google.golang.org/genai"
)

// Models is the subset of the genai models service used by Client.
// *genai.Models satisfies it; tests substitute a fake.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Client critiques and generates artwork with Gemini models.
type Client struct {
	models        Models
	critiqueModel ChatModel
	imageModel    ImageModel
	logger        *slog.Logger
}

// New creates a client for the Gemini API with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return NewWithModels(client.Models, opts...), nil
}

// NewVertex creates a client for Vertex AI using Application Default Credentials.
func NewVertex(ctx context.Context, project, location string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  project,
		Location: location,
	})
	if err != nil {
		return nil, err
	}
	return NewWithModels(client.Models, opts...), nil
}

// NewWithModels creates a client over an existing models service.
func NewWithModels(models Models, opts ...ClientOption) *Client {
	c := &Client{
		models:        models,
		critiqueModel: DefaultChatModel,
		imageModel:    DefaultImageModel,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithCritiqueModel sets the vision model used by Analyze.
func WithCritiqueModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.critiqueModel = model
	}
}

// WithImageModel sets the model used by Generate.
func WithImageModel(model ImageModel) ClientOption {
	return func(c *Client) {
		c.imageModel = model
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}
