package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethanbaker/tubescript/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoogle(t *testing.T, handler http.HandlerFunc) *Google {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g, err := NewGoogle(GoogleConfig{APIKey: "key", BaseURL: server.URL, HTTPClient: server.Client()})
	require.NoError(t, err)
	return g
}

func TestGoogleComplete(t *testing.T) {
	t.Run("sends instruction and schema", func(t *testing.T) {
		g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
			assert.Equal(t, "key", r.Header.Get("x-goog-api-key"))

			var body geminiRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body.Contents, 1)
			assert.Equal(t, "write it", body.Contents[0].Parts[0].Text)
			require.NotNil(t, body.SystemInstruction)
			assert.Equal(t, "be brief", body.SystemInstruction.Parts[0].Text)
			require.NotNil(t, body.GenerationConfig)
			assert.Equal(t, "application/json", body.GenerationConfig.ResponseMimeType)
			assert.JSONEq(t, `{"type":"OBJECT"}`, string(body.GenerationConfig.ResponseSchema))

			w.Write([]byte(`{
				"candidates":[{"content":{"parts":[{"text":"{\"title\":"},{"text":"\"x\"}"}]},"finishReason":"STOP"}],
				"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":5}
			}`))
		})

		resp, err := g.Complete(context.Background(), Request{
			Prompt:            "write it",
			SystemInstruction: "be brief",
			ResponseMimeType:  "application/json",
			ResponseSchema:    json.RawMessage(`{"type":"OBJECT"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, `{"title":"x"}`, resp.Text)
		assert.Equal(t, "STOP", resp.FinishReason)
		assert.Equal(t, "gemini-2.5-flash", resp.Model)
		assert.Equal(t, 3, resp.PromptTokens)
		assert.Equal(t, 5, resp.OutputTokens)
	})

	t.Run("status errors carry the code", func(t *testing.T) {
		g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":{"code":503,"message":"The model is overloaded.","status":"UNAVAILABLE"}}`))
		})

		_, err := g.Complete(context.Background(), Request{Prompt: "p"})
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "The model is overloaded.")
	})

	t.Run("no candidates", func(t *testing.T) {
		g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		})

		_, err := g.Complete(context.Background(), Request{Prompt: "p"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
		})

		_, err := g.Complete(context.Background(), Request{Prompt: "p"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SAFETY")
	})
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		values   map[string]string
		provider string
		err      error
	}{
		{"google by default", map[string]string{"GEMINI_API_KEY": "k"}, ProviderGoogle, nil},
		{"openai", map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": "k"}, ProviderOpenAI, nil},
		{"missing key", map[string]string{"LLM_PROVIDER": "google"}, "", ErrMissingAPIKey},
		{"unknown", map[string]string{"LLM_PROVIDER": "llama"}, "", ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewFromConfig(utils.NewConfig(tt.values))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.provider, p.Name())
		})
	}
}
