package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

const testPrompt = "you are a test assistant."

func newTestClient(url string) *OpenRouterClient {
	return NewOpenRouterClient(OpenRouterConfig{
		APIKey:   "test-key",
		Model:    "test-model",
		SiteURL:  "http://localhost",
		SiteName: "edutron",
		BaseURL:  url,
	})
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "http://localhost", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "edutron", r.Header.Get("X-Title"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello student"}},
			},
		})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Complete(context.Background(), testPrompt, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello student", got)
}

func TestCompleteNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), testPrompt, "hi")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnexpectedCompletion)
}

func TestCompleteEmptyChoicesIsUnexpectedCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), testPrompt, "hi")
	assert.ErrorIs(t, err, domain.ErrUnexpectedCompletion)
}

func TestDisabledWithoutKey(t *testing.T) {
	c := NewOpenRouterClient(OpenRouterConfig{Model: "m"})
	assert.False(t, c.Enabled())

	_, err := c.Complete(context.Background(), testPrompt, "hi")
	assert.Error(t, err)
}
