package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reno-ai-api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.GenAIConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		TextModel:  "text-model",
		ImageModel: "image-model",
	}), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGenerateText(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": "Hello "}, {"text": "world"}},
				},
			}},
		})
	})

	text, err := client.GenerateText(context.Background(), []Part{TextPart("hi")}, TextOptions{
		Temperature:       Ptr(float32(0.4)),
		SystemInstruction: "be brief",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
	assert.Equal(t, "/v1beta/models/text-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	genCfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.4, genCfg["temperature"], 0.001)
	assert.NotNil(t, gotBody["systemInstruction"])
}

func TestGenerateJSON_SendsSchemaAndMIMEType(t *testing.T) {
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": `{"a":1}`}}},
			}},
		})
	})

	out, err := client.GenerateJSON(context.Background(), []Part{TextPart("go")}, JSONOptions{
		Schema: map[string]any{"type": "object"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	genCfg := gotBody["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.Equal(t, map[string]any{"type": "object"}, genCfg["responseSchema"])
}

func TestGenerateImage_ReturnsFirstInlineImage(t *testing.T) {
	var gotPath string
	raw := []byte{0x89, 0x50, 0x4E, 0x47}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": "here is your image"},
						{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(raw),
						}},
					},
				},
			}},
		})
	})

	result, err := client.GenerateImage(context.Background(), []Part{TextPart("paint it")}, ImageOptions{
		AspectRatio: "4:3",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1beta/models/image-model:generateContent", gotPath)
	assert.Equal(t, raw, result.Data)
	assert.Equal(t, "image/png", result.MIMEType)
}

func TestGenerateImage_NoImagePartIsEmptyNotError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content":      map[string]any{"parts": []map[string]any{{"text": "cannot comply"}}},
				"finishReason": "SAFETY",
			}},
		})
	})

	result, err := client.GenerateImage(context.Background(), []Part{TextPart("paint it")}, ImageOptions{})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestGenerateGrounded_CollectsWebURIs(t *testing.T) {
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{"parts": []map[string]any{{"text": "found some"}}},
				"groundingMetadata": map[string]any{
					"groundingChunks": []map[string]any{
						{"web": map[string]any{"uri": "https://example.com/a", "title": "A"}},
						{"web": map[string]any{"uri": "https://example.com/b"}},
						{},
					},
				},
			}},
		})
	})

	result, err := client.GenerateGrounded(context.Background(), []Part{TextPart("find refs")}, TextOptions{})
	require.NoError(t, err)
	assert.Equal(t, "found some", result.Text)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, result.URIs)

	tools, ok := gotBody["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Contains(t, tools[0].(map[string]any), "googleSearch")
}

func TestInvoke_429ParsedAsRateLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded for model","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.GenerateText(context.Background(), []Part{TextPart("hi")}, TextOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, "RESOURCE_EXHAUSTED", apiErr.Status)
	assert.True(t, IsRateLimit(err))
}

func TestInvoke_NonJSONErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gateway timeout"))
	})

	_, err := client.GenerateText(context.Background(), []Part{TextPart("hi")}, TextOptions{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, "upstream gateway timeout", apiErr.Message)
	assert.False(t, IsRateLimit(err))
}
