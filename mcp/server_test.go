package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/lumina"
)

type fakeGallery struct {
	artworks  []lumina.Artwork
	critique  lumina.AnalysisResult
	critErr   error
	image     string
	genErr    error
	critiqued []string
	prompts   []string
}

func (f *fakeGallery) Artworks() []lumina.Artwork { return f.artworks }

func (f *fakeGallery) Critique(ctx context.Context, id string) (lumina.AnalysisResult, error) {
	f.critiqued = append(f.critiqued, id)
	for _, a := range f.artworks {
		if a.ID == id {
			return f.critique, f.critErr
		}
	}
	return lumina.AnalysisResult{}, fmt.Errorf("%w: %q", lumina.ErrNotFound, id)
}

func (f *fakeGallery) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.image, f.genErr
}

func connect(t *testing.T, s *server.MCPServer) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(s)
	require.NoError(t, err)
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "test-client",
				Version: "1.0.0",
			},
		},
	})
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	return result
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func newGallery() *fakeGallery {
	return &fakeGallery{
		artworks: []lumina.Artwork{
			{ID: "1", URL: "https://picsum.photos/id/1/800/1000", Title: "Remote", Artist: "A", Year: "2020"},
			{ID: "2", URL: lumina.PNGDataURI([]byte("png")), Title: "Made", Artist: lumina.GeneratedArtist, Year: "2026", Generated: true},
		},
		critique: lumina.AnalysisResult{Title: "T", Critique: "C", Mood: "M", Style: "S"},
		image:    lumina.PNGDataURI([]byte("generated")),
	}
}

func TestNewServer_ListTools(t *testing.T) {
	c := connect(t, NewServer(newGallery()))

	result, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_artworks", "critique_artwork", "generate_artwork"}, names)
}

func TestListArtworks(t *testing.T) {
	c := connect(t, NewServer(newGallery()))

	result := callTool(t, c, "list_artworks", nil)

	assert.False(t, result.IsError)
	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "https://picsum.photos/id/1/800/1000", got[0]["url"])
	assert.NotContains(t, got[1], "url")
	assert.Equal(t, true, got[1]["isGenerated"])
}

func TestCritiqueArtwork(t *testing.T) {
	t.Run("returns the analysis as json", func(t *testing.T) {
		g := newGallery()
		c := connect(t, NewServer(g))

		result := callTool(t, c, "critique_artwork", map[string]any{"artwork_id": "1"})

		assert.False(t, result.IsError)
		assert.JSONEq(t, `{"title":"T","critique":"C","mood":"M","style":"S"}`, textOf(t, result))
		assert.Equal(t, []string{"1"}, g.critiqued)
	})

	t.Run("unknown artwork is a tool error", func(t *testing.T) {
		c := connect(t, NewServer(newGallery()))

		result := callTool(t, c, "critique_artwork", map[string]any{"artwork_id": "99"})

		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), "not found")
	})

	t.Run("missing argument is a tool error", func(t *testing.T) {
		c := connect(t, NewServer(newGallery()))

		result := callTool(t, c, "critique_artwork", map[string]any{})

		assert.True(t, result.IsError)
	})
}

func TestGenerateArtwork(t *testing.T) {
	t.Run("returns image content", func(t *testing.T) {
		g := newGallery()
		c := connect(t, NewServer(g))

		result := callTool(t, c, "generate_artwork", map[string]any{"prompt": "salt flats at noon"})

		assert.False(t, result.IsError)
		assert.Equal(t, []string{"salt flats at noon"}, g.prompts)
		require.Len(t, result.Content, 2)
		img, ok := result.Content[1].(mcp.ImageContent)
		require.True(t, ok)
		assert.Equal(t, "image/png", img.MIMEType)
		assert.Equal(t, lumina.DataURIPayload(g.image), img.Data)
	})

	t.Run("synthesis failure is a tool error", func(t *testing.T) {
		g := newGallery()
		g.genErr = lumina.ErrNoImageData
		c := connect(t, NewServer(g))

		result := callTool(t, c, "generate_artwork", map[string]any{"prompt": "x"})

		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), lumina.ErrNoImageData.Error())
	})
}

func TestCritiqueArtwork_PropagatesEncodingErrors(t *testing.T) {
	g := newGallery()
	g.critErr = errors.New("fetch failed")
	c := connect(t, NewServer(g))

	result := callTool(t, c, "critique_artwork", map[string]any{"artwork_id": "1"})

	assert.True(t, result.IsError)
	assert.Equal(t, "fetch failed", textOf(t, result))
}
