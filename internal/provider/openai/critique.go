package openai

import (
	"context"
	"time"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/lumina"
	"github.com/spetersoncode/lumina/schema"
)

// Analyze asks the critique model for a structured critique of a base64 JPEG.
// Failures are logged and answered with lumina.FallbackAnalysis.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) lumina.AnalysisResult {
	log := c.logger.With("provider", "openai", "model", c.critiqueModel.String())
	start := time.Now()

	format, err := analysisFormat()
	if err != nil {
		log.Error("analysis failed", "error", err)
		return lumina.FallbackAnalysis()
	}

	imageURL := "data:" + lumina.CritiqueMIMEType + ";base64," + imageBase64
	params := openai.ChatCompletionNewParams{
		Model: c.critiqueModel.String(),
		Messages: []openai.ChatCompletionMessageParamUnion{{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
						openai.TextContentPart(lumina.CritiquePrompt),
					},
				},
			},
		}},
		ResponseFormat: format,
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Error("analysis failed", "error", wrapError(err))
		return lumina.FallbackAnalysis()
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	result, err := lumina.ParseAnalysis(text)
	if err != nil {
		log.Error("analysis failed", "error", err)
		return lumina.FallbackAnalysis()
	}

	log.Debug("analysis completed", "duration_ms", time.Since(start).Milliseconds())
	return result
}

// analysisFormat builds a strict json_schema response format. Strict mode
// requires additionalProperties: false on the object.
func analysisFormat() (openai.ChatCompletionNewParamsResponseFormatUnion, error) {
	m, err := schema.ToMap(lumina.AnalysisSchema.Schema)
	if err != nil {
		return openai.ChatCompletionNewParamsResponseFormatUnion{}, err
	}
	m["additionalProperties"] = false

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			Type: "json_schema",
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        lumina.AnalysisSchema.Name,
				Description: openai.String(lumina.AnalysisSchema.Description),
				Schema:      m,
				Strict:      openai.Bool(true),
			},
		},
	}, nil
}

var _ lumina.Critic = (*Client)(nil)
