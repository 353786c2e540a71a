package claude_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/config"
	"docinsight/internal/llm"
	"docinsight/internal/llm/claude"
	"docinsight/internal/port"
)

func newTestCompleter(serverURL string) *claude.Completer {
	return claude.NewCompleterWithEndpoint(&config.ProviderConfig{
		Provider:    "claude",
		APIKey:      "test-api-key",
		TimeoutSecs: 30,
	}, serverURL)
}

func TestCompleter_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, float64(4096), reqBody["max_tokens"])
		assert.Equal(t, float64(0), reqBody["temperature"])
		assert.Equal(t, "You are a data analyst.", reqBody["system"])

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "How many rows?", msg["content"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "claude-sonnet-4-20250514",
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"answer":"There are `},
				{"type": "text", "text": `3 rows."}`},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	out, err := newTestCompleter(server.URL).Complete(context.Background(), port.CompletionRequest{
		System:    "You are a data analyst.",
		User:      "How many rows?",
		MaxTokens: 4096,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"There are 3 rows."}`, out.Text)
	assert.Equal(t, "claude-sonnet-4-20250514", out.Model)
	assert.Equal(t, "end_turn", out.StopReason)
}

func TestCompleter_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer server.Close()

	out, err := newTestCompleter(server.URL).Complete(context.Background(), port.CompletionRequest{User: "q"})

	assert.Nil(t, out)
	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "claude", rlErr.Provider)
	assert.Equal(t, 12.0, rlErr.RetryAfter.Seconds())
}

func TestCompleter_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), port.CompletionRequest{User: "q"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCompleter_Complete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), port.CompletionRequest{User: "q"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestCompleter_Complete_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestCompleter(server.URL).Complete(context.Background(), port.CompletionRequest{User: "q"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshaling response")
}

func TestCompleter_Complete_DefaultMaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&reqBody)
		assert.Equal(t, float64(1024), reqBody["max_tokens"])
		_, hasSystem := reqBody["system"]
		assert.False(t, hasSystem)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hi"}]}`))
	}))
	defer server.Close()

	out, err := newTestCompleter(server.URL).Complete(context.Background(), port.CompletionRequest{User: "q"})

	require.NoError(t, err)
	assert.Equal(t, "hi", out.Text)
}
