package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/lumina"
)

type recordedRequest struct {
	path string
	body map[string]any
}

func newTestClient(t *testing.T, status int, response string, opts ...ClientOption) (*Client, *[]recordedRequest, *atomic.Int32) {
	t.Helper()
	var requests []recordedRequest
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		requests = append(requests, recordedRequest{path: r.URL.Path, body: body})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRequestOptions(option.WithBaseURL(srv.URL + "/")),
	}, opts...)
	return New("test-key", opts...), &requests, &hits
}

func chatResponse(content string) string {
	data, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(data)
}

func TestClient_Analyze(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	t.Run("returns the parsed critique", func(t *testing.T) {
		c, requests, _ := newTestClient(t, http.StatusOK,
			chatResponse(`{"title":"Glass City","critique":"Sharp. Cold.","mood":"Detached","style":"Futurism"}`))

		got := c.Analyze(context.Background(), payload)

		assert.Equal(t, lumina.AnalysisResult{Title: "Glass City", Critique: "Sharp. Cold.", Mood: "Detached", Style: "Futurism"}, got)
		require.Len(t, *requests, 1)
		assert.Equal(t, "/chat/completions", (*requests)[0].path)
	})

	t.Run("sends image as jpeg data url and requests strict schema", func(t *testing.T) {
		c, requests, _ := newTestClient(t, http.StatusOK, chatResponse(`{"title":"a","critique":"b","mood":"c","style":"d"}`))

		c.Analyze(context.Background(), payload)

		require.Len(t, *requests, 1)
		body := (*requests)[0].body
		assert.Equal(t, "gpt-4o", body["model"])

		raw, err := json.Marshal(body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "data:image/jpeg;base64,"+payload)

		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
		jsonSchema := format["json_schema"].(map[string]any)
		assert.Equal(t, "artwork_critique", jsonSchema["name"])
		assert.Equal(t, true, jsonSchema["strict"])
		s := jsonSchema["schema"].(map[string]any)
		assert.Equal(t, false, s["additionalProperties"])
	})

	t.Run("falls back on api errors without retrying", func(t *testing.T) {
		c, _, hits := newTestClient(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)

		got := c.Analyze(context.Background(), payload)

		assert.Equal(t, lumina.FallbackAnalysis(), got)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("falls back on empty content", func(t *testing.T) {
		c, _, _ := newTestClient(t, http.StatusOK, chatResponse(""))

		assert.Equal(t, lumina.FallbackAnalysis(), c.Analyze(context.Background(), payload))
	})

	t.Run("falls back on malformed content", func(t *testing.T) {
		c, _, _ := newTestClient(t, http.StatusOK, chatResponse("The painting is lovely."))

		assert.Equal(t, lumina.FallbackAnalysis(), c.Analyze(context.Background(), payload))
	})
}

func TestClient_Generate(t *testing.T) {
	image := []byte("\x89PNG\r\n\x1a\nopenai")
	b64 := base64.StdEncoding.EncodeToString(image)

	t.Run("returns a png data uri", func(t *testing.T) {
		c, requests, _ := newTestClient(t, http.StatusOK, `{"created":1,"data":[{"b64_json":"`+b64+`"}]}`)

		got, err := c.Generate(context.Background(), "paper cranes at dusk")

		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,"+b64, got)
		require.Len(t, *requests, 1)
		assert.Equal(t, "/images/generations", (*requests)[0].path)
		assert.Equal(t, "gpt-image-1", (*requests)[0].body["model"])
		assert.Equal(t, "paper cranes at dusk", (*requests)[0].body["prompt"])
		assert.NotContains(t, (*requests)[0].body, "response_format")
	})

	t.Run("asks dall-e models for base64 output", func(t *testing.T) {
		c, requests, _ := newTestClient(t, http.StatusOK, `{"created":1,"data":[{"b64_json":"`+b64+`"}]}`, WithImageModel(DallE3))

		_, err := c.Generate(context.Background(), "x")

		require.NoError(t, err)
		assert.Equal(t, "b64_json", (*requests)[0].body["response_format"])
	})

	t.Run("fails when no image data is returned", func(t *testing.T) {
		c, _, _ := newTestClient(t, http.StatusOK, `{"created":1,"data":[{"url":"https://example.com/a.png"}]}`)

		got, err := c.Generate(context.Background(), "x")

		assert.ErrorIs(t, err, lumina.ErrNoImageData)
		assert.Empty(t, got)
	})

	t.Run("propagates categorized api errors", func(t *testing.T) {
		c, _, hits := newTestClient(t, http.StatusBadRequest, `{"error":{"message":"content policy","type":"invalid_request_error"}}`)

		_, err := c.Generate(context.Background(), "x")

		require.Error(t, err)
		assert.True(t, lumina.IsUserInput(err))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("rejects blank prompts", func(t *testing.T) {
		c, _, hits := newTestClient(t, http.StatusOK, `{}`)

		_, err := c.Generate(context.Background(), "")

		assert.ErrorIs(t, err, lumina.ErrEmptyPrompt)
		assert.Equal(t, int32(0), hits.Load())
	})
}
