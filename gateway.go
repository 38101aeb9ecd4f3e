package lumina

import "context"

// Critic produces a structured critique of an image.
//
// Analyze never returns an error. Implementations log the underlying failure
// and return FallbackAnalysis when the call fails, the response is empty, or
// the response cannot be decoded.
type Critic interface {
	// Analyze critiques a base64-encoded JPEG payload with no data URI prefix.
	Analyze(ctx context.Context, imageBase64 string) AnalysisResult
}

// Synthesizer generates new images from text prompts.
//
// Unlike Critic, failures are returned to the caller. Generate never
// substitutes a placeholder image.
type Synthesizer interface {
	// Generate returns a PNG data URI for the first inline image in the response.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Encoder fetches a remote image and returns its bytes as raw base64.
type Encoder interface {
	Base64(ctx context.Context, url string) (string, error)
}

// CriticFunc adapts a function to the Critic interface.
type CriticFunc func(ctx context.Context, imageBase64 string) AnalysisResult

// Analyze calls f.
func (f CriticFunc) Analyze(ctx context.Context, imageBase64 string) AnalysisResult {
	return f(ctx, imageBase64)
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f SynthesizerFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// EncoderFunc adapts a function to the Encoder interface.
type EncoderFunc func(ctx context.Context, url string) (string, error)

// Base64 calls f.
func (f EncoderFunc) Base64(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}
