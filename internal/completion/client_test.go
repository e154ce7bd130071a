package completion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webgen-backend/internal/completion"
)

func newClient(serverURL string) *completion.Client {
	return completion.NewClient(completion.Config{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Model:   "deepseek-chat",
	})
}

func TestCompleteRequestFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "deepseek-chat", body.Model)
		assert.InDelta(t, 0.7, body.Temperature, 1e-9)
		assert.Equal(t, 1024, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "Summarize the following content:\n\nQ3 update", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"a summary"}}]}`))
		assert.NoError(t, err)
	}))
	defer server.Close()

	reply, err := newClient(server.URL).Complete(context.Background(), "Summarize the following content:\n\nQ3 update")
	require.NoError(t, err)
	assert.Equal(t, "a summary", reply)
}

func TestCompleteUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Complete(context.Background(), "hello")

	var upstream *completion.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Detail, "500")
}

func TestCompleteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	_, err := newClient(server.URL).Complete(context.Background(), "hello")

	var upstream *completion.UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestCompleteMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("not json"))
		assert.NoError(t, err)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Complete(context.Background(), "hello")

	var upstream *completion.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "malformed response body", upstream.Detail)
}

func TestCompleteMissingFields(t *testing.T) {
	for name, body := range map[string]string{
		"NoChoices": `{"choices":[]}`,
		"NoContent": `{"choices":[{"message":{"role":"assistant"}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, err := w.Write([]byte(body))
				assert.NoError(t, err)
			}))
			defer server.Close()

			_, err := newClient(server.URL).Complete(context.Background(), "hello")

			var upstream *completion.UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Equal(t, "response missing message content", upstream.Detail)
		})
	}
}
