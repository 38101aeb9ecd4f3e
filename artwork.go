package lumina

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// GeneratedArtist is the artist label attached to artworks saved from the atelier.
const GeneratedArtist = "Gemini AI"

// maxTitleRunes is the prompt length kept when a prompt becomes a title.
const maxTitleRunes = 20

// Artwork is a single browsable image with descriptive metadata.
// URL is either a fully-qualified http(s) URL or a data URI.
type Artwork struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Year        string `json:"year"`
	Description string `json:"description,omitempty"`
	Generated   bool   `json:"isGenerated,omitempty"`
}

// IsEmbedded reports whether the artwork image is carried inline as a data URI.
func (a Artwork) IsEmbedded() bool {
	return IsDataURI(a.URL)
}

// NewGeneratedArtwork builds the artwork saved from a generated preview.
// The id is the creation time in milliseconds and the title is the prompt,
// truncated to 20 characters plus "..." when longer.
func NewGeneratedArtwork(prompt, dataURI string, created time.Time) Artwork {
	return Artwork{
		ID:        strconv.FormatInt(created.UnixMilli(), 10),
		URL:       dataURI,
		Title:     TitleFromPrompt(prompt),
		Artist:    GeneratedArtist,
		Year:      strconv.Itoa(created.Year()),
		Generated: true,
	}
}

// TitleFromPrompt shortens a prompt into an artwork title.
func TitleFromPrompt(prompt string) string {
	if utf8.RuneCountInString(prompt) <= maxTitleRunes {
		return prompt
	}
	runes := []rune(prompt)
	return string(runes[:maxTitleRunes]) + "..."
}
