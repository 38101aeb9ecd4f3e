package lumina

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromPrompt(t *testing.T) {
	t.Run("truncates long prompts to twenty characters plus ellipsis", func(t *testing.T) {
		prompt := "Sunset over a futuristic skyline with golden hour lighting"
		assert.Equal(t, "Sunset over a futuri...", TitleFromPrompt(prompt))
		assert.Equal(t, prompt[:20]+"...", TitleFromPrompt(prompt))
	})

	t.Run("keeps prompts of exactly twenty characters", func(t *testing.T) {
		prompt := strings.Repeat("a", 20)
		assert.Equal(t, prompt, TitleFromPrompt(prompt))
	})

	t.Run("keeps short prompts", func(t *testing.T) {
		assert.Equal(t, "A red fox", TitleFromPrompt("A red fox"))
	})

	t.Run("counts characters rather than bytes", func(t *testing.T) {
		prompt := strings.Repeat("é", 25)
		assert.Equal(t, strings.Repeat("é", 20)+"...", TitleFromPrompt(prompt))
	})
}

func TestNewGeneratedArtwork(t *testing.T) {
	created := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)
	uri := "data:image/png;base64,AAAA"

	art := NewGeneratedArtwork("Sunset over a futuristic skyline with golden hour lighting", uri, created)

	assert.Equal(t, "1772625600000", art.ID)
	assert.Equal(t, uri, art.URL)
	assert.Equal(t, "Sunset over a futuri...", art.Title)
	assert.Equal(t, GeneratedArtist, art.Artist)
	assert.Equal(t, "2026", art.Year)
	assert.True(t, art.Generated)
	assert.True(t, art.IsEmbedded())
}

func TestArtwork_IsEmbedded(t *testing.T) {
	assert.False(t, Artwork{URL: "https://picsum.photos/id/10/800/1000"}.IsEmbedded())
	assert.True(t, Artwork{URL: "data:image/jpeg;base64,/9j/"}.IsEmbedded())
}
