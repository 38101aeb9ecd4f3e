package google

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/spetersoncode/lumina"
)

var analysisSchema = ConvertJSONSchemaToGenaiSchema(lumina.AnalysisSchema.Schema)

// Analyze asks the critique model for a structured critique of a base64 JPEG.
// Failures are logged and answered with lumina.FallbackAnalysis.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) lumina.AnalysisResult {
	log := c.logger.With("provider", "google", "model", c.critiqueModel.String())
	start := time.Now()

	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		log.Error("analysis failed", "error", &lumina.ImageError{Op: "decode", URL: "base64", Err: err})
		return lumina.FallbackAnalysis()
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: lumina.CritiqueMIMEType, Data: data}},
			{Text: lumina.CritiquePrompt},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	}

	resp, err := c.models.GenerateContent(ctx, c.critiqueModel.String(), contents, config)
	if err != nil {
		log.Error("analysis failed", "error", wrapError(err))
		return lumina.FallbackAnalysis()
	}

	result, err := lumina.ParseAnalysis(responseText(resp))
	if err != nil {
		log.Error("analysis failed", "error", err)
		return lumina.FallbackAnalysis()
	}

	log.Debug("analysis completed", "duration_ms", time.Since(start).Milliseconds())
	return result
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

var _ lumina.Critic = (*Client)(nil)
