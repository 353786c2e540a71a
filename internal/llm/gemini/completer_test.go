package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/config"
	"docinsight/internal/llm/gemini"
	"docinsight/internal/port"
)

func TestCompleter_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent"), r.URL.Path)

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.NotNil(t, reqBody["systemInstruction"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"answer\":\"ok\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	c, err := gemini.NewCompleter(context.Background(), &config.ProviderConfig{
		Provider: "gemini",
		APIKey:   "g-key",
		Endpoint: server.URL,
	})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), port.CompletionRequest{
		System:    "be brief",
		User:      "hello",
		MaxTokens: 256,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":"ok"}`, out.Text)
	assert.Equal(t, "STOP", out.StopReason)
}

func TestCompleter_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	c, err := gemini.NewCompleter(context.Background(), &config.ProviderConfig{
		Provider: "gemini",
		APIKey:   "g-key",
		Endpoint: server.URL,
	})
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), port.CompletionRequest{User: "hello"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini request failed")
}
