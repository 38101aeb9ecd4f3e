package openai

import (
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client critiques and generates artwork with OpenAI models.
type Client struct {
	client         *openai.Client
	critiqueModel  ChatModel
	imageModel     ImageModel
	logger         *slog.Logger
	requestOptions []option.RequestOption
}

// ClientOption configures the OpenAI client.
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

// WithRequestOptions passes extra options to the SDK client, such as a base URL.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *Client) {
		c.requestOptions = append(c.requestOptions, opts...)
	}
}

// New creates an OpenAI client with the given API key.
// SDK retries are disabled: each call is a single attempt.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		critiqueModel: DefaultChatModel,
		imageModel:    DefaultImageModel,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, c.requestOptions...)
	client := openai.NewClient(reqOpts...)
	c.client = &client
	return c
}
