package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"docinsight/internal/config"
	"docinsight/internal/llm"
	"docinsight/internal/port"
)

const defaultModel = "gemini-2.0-flash"

// Completer implements port.Completer using the Gemini API through the genai SDK.
type Completer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewCompleter creates a Gemini completer. cfg.Endpoint overrides the API base URL.
func NewCompleter(ctx context.Context, cfg *config.ProviderConfig) (*Completer, error) {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Completer{client: client, model: model, timeout: timeout}, nil
}

func (c *Completer) Complete(ctx context.Context, in port.CompletionRequest) (*port.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(in.Temperature)),
	}
	if in.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(in.MaxTokens)
	}
	if in.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(in.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(in.User), gc)
	if err != nil {
		if isRateLimited(err) {
			return nil, llm.NewRateLimitError("gemini", err, 0)
		}
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from API")
	}

	var stop string
	if len(resp.Candidates) > 0 {
		stop = string(resp.Candidates[0].FinishReason)
	}
	return &port.Completion{Text: text, Model: c.model, StopReason: stop}, nil
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return strings.Contains(err.Error(), "RESOURCE_EXHAUSTED")
}
