package openai

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/lumina"
)

// Generate renders a prompt with the Images API and returns a PNG data URI.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", lumina.NewUserInputError("generate", 400, lumina.ErrEmptyPrompt)
	}
	log := c.logger.With("provider", "openai", "model", c.imageModel.String())
	start := time.Now()

	params := openai.ImageGenerateParams{
		Model:  openai.ImageModel(c.imageModel.String()),
		Prompt: prompt,
		N:      openai.Int(1),
	}
	if c.imageModel.needsResponseFormat() {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormat("b64_json")
	}

	resp, err := c.client.Images.Generate(ctx, params)
	if err != nil {
		err = wrapError(err)
		log.Error("generation failed", "error", err)
		return "", err
	}

	for _, img := range resp.Data {
		if img.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(img.B64JSON)
		if err != nil {
			err = &lumina.ImageError{Op: "decode", URL: "base64", Err: err}
			log.Error("generation failed", "error", err)
			return "", err
		}
		log.Debug("generation completed", "bytes", len(data), "duration_ms", time.Since(start).Milliseconds())
		return lumina.PNGDataURI(data), nil
	}

	log.Error("generation failed", "error", lumina.ErrNoImageData)
	return "", lumina.ErrNoImageData
}

var _ lumina.Synthesizer = (*Client)(nil)
