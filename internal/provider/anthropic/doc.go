// Package anthropic implements the gallery's critic on the Anthropic Messages
// API. Claude has no image synthesis, so only lumina.Critic is provided.
//
// Structured output is obtained by forcing a single tool call whose input
// schema is the critique schema; the tool input is the critique JSON.
package anthropic
