package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/schema"
)

// ChatModel is an Anthropic model used for critique.
type ChatModel string

const (
	ClaudeSonnet45 ChatModel = "claude-sonnet-4-5"
	ClaudeHaiku45  ChatModel = "claude-haiku-4-5"

	// DefaultChatModel is the model used for critiques.
	DefaultChatModel ChatModel = ClaudeSonnet45
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }

// critiqueToolName is the forced tool whose input carries the critique.
const critiqueToolName = "record_critique"

const maxTokens = 1024

// Client critiques artwork with Claude.
type Client struct {
	client         *anthropic.Client
	model          ChatModel
	logger         *slog.Logger
	requestOptions []option.RequestOption
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the critique model.
func WithModel(model ChatModel) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRequestOptions passes extra options to the SDK client.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *Client) {
		c.requestOptions = append(c.requestOptions, opts...)
	}
}

// New creates an Anthropic client with the given API key.
// SDK retries are disabled: each call is a single attempt.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model:  DefaultChatModel,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	reqOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, c.requestOptions...)
	client := anthropic.NewClient(reqOpts...)
	c.client = &client
	return c
}

// Analyze asks Claude for a structured critique of a base64 JPEG.
// Failures are logged and answered with lumina.FallbackAnalysis.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) lumina.AnalysisResult {
	log := c.logger.With("provider", "anthropic", "model", c.model.String())
	start := time.Now()

	tool, err := critiqueTool()
	if err != nil {
		log.Error("analysis failed", "error", err)
		return lumina.FallbackAnalysis()
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model.String()),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(lumina.CritiqueMIMEType, imageBase64),
				anthropic.NewTextBlock(lumina.CritiquePrompt),
			),
		},
		Tools: []anthropic.ToolUnionParam{tool},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: critiqueToolName},
		},
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		log.Error("analysis failed", "error", wrapError(err))
		return lumina.FallbackAnalysis()
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == critiqueToolName {
			text = string(block.Input)
			break
		}
	}
	result, err := lumina.ParseAnalysis(text)
	if err != nil {
		log.Error("analysis failed", "error", err)
		return lumina.FallbackAnalysis()
	}

	log.Debug("analysis completed", "duration_ms", time.Since(start).Milliseconds())
	return result
}

func critiqueTool() (anthropic.ToolUnionParam, error) {
	m, err := schema.ToMap(lumina.AnalysisSchema.Schema)
	if err != nil {
		return anthropic.ToolUnionParam{}, err
	}
	var required []string
	if list, ok := m["required"].([]any); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}
	return anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        critiqueToolName,
			Description: anthropic.String(lumina.AnalysisSchema.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: m["properties"],
				Required:   required,
			},
		},
	}, nil
}

// wrapError categorizes an Anthropic API error by its status code.
func wrapError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return lumina.WrapStatusError(apiErr.StatusCode, err)
	}
	return err
}

var _ lumina.Critic = (*Client)(nil)
