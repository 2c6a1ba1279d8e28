package llm

import "context"

// CompletionRequest holds parameters for a single-shot text completion.
type CompletionRequest struct {
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Provider is the interface for hosted text-generation backends. Failures
// are returned as errors, never embedded in the returned text; callers are
// expected to hide them behind their own fallback messages.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	DefaultModel() string
}
