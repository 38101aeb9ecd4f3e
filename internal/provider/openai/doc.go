// Package openai implements the gallery's critic and synthesizer on the
// OpenAI API: vision chat completions with a strict JSON schema for critiques
// and the Images API for synthesis.
package openai
