package google

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/spetersoncode/lumina"
)

// Generate renders a prompt into an image and returns it as a PNG data URI.
// Gemini image models answer through GenerateContent with inline image parts;
// Imagen models answer through GenerateImages.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", lumina.NewUserInputError("generate", 400, lumina.ErrEmptyPrompt)
	}
	log := c.logger.With("provider", "google", "model", c.imageModel.String())
	start := time.Now()

	var (
		data []byte
		err  error
	)
	if c.imageModel.IsImagen() {
		data, err = c.generateImagen(ctx, prompt)
	} else {
		data, err = c.generateInline(ctx, prompt)
	}
	if err != nil {
		log.Error("generation failed", "error", err)
		return "", err
	}

	log.Debug("generation completed", "bytes", len(data), "duration_ms", time.Since(start).Milliseconds())
	return lumina.PNGDataURI(data), nil
}

func (c *Client) generateInline(ctx context.Context, prompt string) ([]byte, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	resp, err := c.models.GenerateContent(ctx, c.imageModel.String(), contents, nil)
	if err != nil {
		return nil, wrapError(err)
	}
	return firstInlineImage(resp)
}

// firstInlineImage returns the bytes of the first part of the first candidate
// that carries inline data. Other parts are ignored.
func firstInlineImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, lumina.ErrNoImageData
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, lumina.ErrNoImageData
}

func (c *Client) generateImagen(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.models.GenerateImages(ctx, c.imageModel.String(), prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	if resp == nil {
		return nil, lumina.ErrNoImageData
	}
	for _, img := range resp.GeneratedImages {
		if img != nil && img.Image != nil && len(img.Image.ImageBytes) > 0 {
			return img.Image.ImageBytes, nil
		}
	}
	return nil, lumina.ErrNoImageData
}

var _ lumina.Synthesizer = (*Client)(nil)
