package openai

import "strings"

// ChatModel is an OpenAI vision-capable chat model.
type ChatModel string

const (
	GPT4o     ChatModel = "gpt-4o"
	GPT4oMini ChatModel = "gpt-4o-mini"
	GPT5Mini  ChatModel = "gpt-5-mini"

	// DefaultChatModel is the model used for critiques.
	DefaultChatModel ChatModel = GPT4o
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }

// ImageModel is an OpenAI image generation model.
type ImageModel string

const (
	GPTImage1     ImageModel = "gpt-image-1"
	GPTImage1Mini ImageModel = "gpt-image-1-mini"
	DallE3        ImageModel = "dall-e-3"

	// DefaultImageModel is the model used for synthesis.
	DefaultImageModel ImageModel = GPTImage1
)

// String returns the model identifier string.
func (m ImageModel) String() string { return string(m) }

// needsResponseFormat reports whether the model defaults to URL output and
// must be asked for base64 explicitly. GPT image models always return base64
// and reject the parameter.
func (m ImageModel) needsResponseFormat() bool {
	return strings.HasPrefix(string(m), "dall-e")
}
