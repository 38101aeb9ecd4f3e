// Package mcp exposes the gallery as Model Context Protocol tools.
//
// Tools:
//   - list_artworks: the artworks in the session
//   - critique_artwork: a structured critique of one artwork
//   - generate_artwork: a new image preview from a prompt
//
// Generated images stay in the atelier preview; nothing is saved through MCP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/lumina"
)

// Gallery is the application surface the tools operate on.
type Gallery interface {
	Artworks() []lumina.Artwork
	Critique(ctx context.Context, id string) (lumina.AnalysisResult, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server with the gallery tools registered.
//
// Example:
//
//	s := mcp.NewServer(app, mcp.WithName("lumina"))
//	http.Handle("/mcp", server.NewStreamableHTTPServer(s))
func NewServer(g Gallery, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "lumina",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(mcp.NewTool("list_artworks",
		mcp.WithDescription("List the artworks in the gallery"),
	), listArtworks(g))

	s.AddTool(mcp.NewTool("critique_artwork",
		mcp.WithDescription("Ask the curator for a critique of an artwork: title, critique, mood and style"),
		mcp.WithString("artwork_id", mcp.Required(), mcp.Description("ID of the artwork to critique")),
	), critiqueArtwork(g))

	s.AddTool(mcp.NewTool("generate_artwork",
		mcp.WithDescription("Generate a new image from a text prompt. The image becomes the atelier preview"),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the image: style, mood, lighting and subject")),
	), generateArtwork(g))

	return s
}

// artworkSummary omits embedded image data from listings.
type artworkSummary struct {
	ID          string `json:"id"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Year        string `json:"year"`
	Description string `json:"description,omitempty"`
	Generated   bool   `json:"isGenerated,omitempty"`
}

func listArtworks(g Gallery) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arts := g.Artworks()
		out := make([]artworkSummary, 0, len(arts))
		for _, a := range arts {
			s := artworkSummary{ID: a.ID, Title: a.Title, Artist: a.Artist, Year: a.Year, Description: a.Description, Generated: a.Generated}
			if !a.IsEmbedded() {
				s.URL = a.URL
			}
			out = append(out, s)
		}
		return jsonResult(out)
	}
}

func critiqueArtwork(g Gallery) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("artwork_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := g.Critique(ctx, id)
		if err != nil {
			if errors.Is(err, lumina.ErrNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("artwork %q not found", id)), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func generateArtwork(g Gallery) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt, err := req.RequireString("prompt")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		uri, err := g.Generate(ctx, prompt)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		mime, _, err := lumina.DecodeDataURI(uri)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultImage("Generated preview for: "+prompt, lumina.DataURIPayload(uri), mime), nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
