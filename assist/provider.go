// Package assist provides the text-completion backends palaver talks to. A
// backend takes one flat prompt and returns one flat continuation; it knows
// nothing about conversations or parties.
package assist

import "context"

// Request is a single completion call.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
	// Stop lists sequences at which the service should end generation.
	// Backends that cannot stop server-side may ignore it.
	Stop []string
}

// Response holds the generated continuation along with token usage metadata.
type Response struct {
	Text             string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

// Completer is the interface for completion backends.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}
