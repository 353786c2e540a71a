package port

import "context"

// CompletionRequest carries a single system+user prompt pair for an LLM.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completion is the raw text returned by one LLM invocation.
type Completion struct {
	Text       string
	Model      string
	StopReason string
}

// Completer abstracts the LLM boundary. Implementations make exactly one
// request per call.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
