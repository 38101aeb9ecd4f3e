package google

import "strings"

// ChatModel is a Gemini model used for critique.
type ChatModel string

const (
	Gemini25Pro       ChatModel = "gemini-2.5-pro"
	Gemini25Flash     ChatModel = "gemini-2.5-flash"
	Gemini25FlashLite ChatModel = "gemini-2.5-flash-lite"

	// DefaultChatModel is the vision model used for critiques.
	DefaultChatModel ChatModel = Gemini25Flash
)

// String returns the model identifier string.
func (m ChatModel) String() string { return string(m) }

// ImageModel is a model used for image synthesis.
type ImageModel string

const (
	Gemini25FlashImage ImageModel = "gemini-2.5-flash-image"
	Imagen4            ImageModel = "imagen-4.0-generate-001"
	Imagen4Fast        ImageModel = "imagen-4.0-fast-generate-001"

	// DefaultImageModel is the model used for synthesis.
	DefaultImageModel ImageModel = Gemini25FlashImage
)

// String returns the model identifier string.
func (m ImageModel) String() string { return string(m) }

// IsImagen reports whether the model is served by the Imagen API.
func (m ImageModel) IsImagen() bool { return strings.HasPrefix(string(m), "imagen-") }
