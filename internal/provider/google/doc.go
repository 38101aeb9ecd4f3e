// Package google implements the gallery's critic and synthesizer on the
// Gemini API (or Vertex AI) through google.golang.org/genai.
package google
