package lumina

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spetersoncode/lumina/schema"
)

// ErrNoAnalysis is returned when a critique response carries no text.
var ErrNoAnalysis = errors.New("no analysis returned")

// AnalysisResult is a structured critique of a single artwork.
type AnalysisResult struct {
	Title    string `json:"title"`
	Critique string `json:"critique"`
	Mood     string `json:"mood"`
	Style    string `json:"style"`
}

// FallbackAnalysis returns the result shown whenever a critique cannot be produced.
func FallbackAnalysis() AnalysisResult {
	return AnalysisResult{
		Title:    "Untitled Mystery",
		Critique: "The curator is currently on a coffee break and cannot analyze this piece right now.",
		Mood:     "Unknown",
		Style:    "Undefined",
	}
}

// CritiquePrompt is the instruction sent alongside every image to be critiqued.
const CritiquePrompt = `You are a world-renowned art critic and curator. Analyze this image.
Provide a JSON response with the following fields:
- title: A creative title for the piece.
- critique: A sophisticated, 2-sentence artistic critique of the composition, lighting, and meaning.
- mood: One or two words describing the mood (e.g., Melancholic, Ethereal).
- style: The likely art style (e.g., Baroque, Abstract Expressionism, Photorealism).`

// CritiqueMIMEType is the MIME type declared for critique image payloads.
const CritiqueMIMEType = "image/jpeg"

// ResponseSchema names a JSON schema that constrains a structured model response.
type ResponseSchema struct {
	Name        string
	Description string
	Schema      json.RawMessage
}

// AnalysisSchema is the response schema every critic requests: an object with
// four required string fields.
var AnalysisSchema = ResponseSchema{
	Name:        "artwork_critique",
	Description: "A curator's structured critique of an artwork",
	Schema: schema.Object().
		Field("title", schema.String().Required()).
		Field("critique", schema.String().Required()).
		Field("mood", schema.String().Required()).
		Field("style", schema.String().Required()).
		MustBuild(),
}

// ParseAnalysis decodes a model's JSON text into an AnalysisResult.
// Field contents are taken as-is.
func ParseAnalysis(text string) (AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return AnalysisResult{}, ErrNoAnalysis
	}
	var result AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	return result, nil
}
