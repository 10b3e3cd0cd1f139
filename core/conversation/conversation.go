// Package conversation drives one request/response cycle at a time between a
// user and a completion backend that plays the bot.
package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nox-hq/palaver/assist"
	"github.com/nox-hq/palaver/core/transcript"
)

const (
	// DefaultTemperature is the sampling temperature sent with every request.
	DefaultTemperature = 0.5
	// DefaultMaxTokens caps the length of each generated reply.
	DefaultMaxTokens = 30
)

// ServiceInvocationError reports a failed completion call. The user turn that
// triggered it stays in the transcript.
type ServiceInvocationError struct {
	Err error
}

func (e *ServiceInvocationError) Error() string {
	return fmt.Sprintf("completion service: %v", e.Err)
}

func (e *ServiceInvocationError) Unwrap() error { return e.Err }

// Usage tracks token consumption across all completion calls.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	RequestCount     int `json:"request_count"`
}

// Orchestrator appends user turns, asks the completer to continue the
// rendered transcript, and records the reply as a bot turn. It is not safe
// for concurrent use.
type Orchestrator struct {
	transcript  *transcript.Transcript
	completer   assist.Completer
	temperature float64
	maxTokens   int
	logger      *slog.Logger
	usage       Usage
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTemperature sets the sampling temperature (default 0.5).
func WithTemperature(t float64) Option {
	return func(o *Orchestrator) { o.temperature = t }
}

// WithMaxTokens sets the hard cap on generated tokens per reply (default 30).
func WithMaxTokens(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithLogger sets the logger. Prompts and raw completions are logged at debug
// with secrets redacted.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an Orchestrator that owns t for the life of the conversation.
func New(t *transcript.Transcript, c assist.Completer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transcript:  t,
		completer:   c,
		temperature: DefaultTemperature,
		maxTokens:   DefaultMaxTokens,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Transcript returns the conversation history.
func (o *Orchestrator) Transcript() *transcript.Transcript { return o.transcript }

// Usage returns cumulative token usage.
func (o *Orchestrator) Usage() Usage { return o.usage }

// Advance records userContent as a user turn, requests a continuation, and
// returns the bot's reply after recording it. A failed completion returns a
// *ServiceInvocationError and records no bot turn.
func (o *Orchestrator) Advance(ctx context.Context, userContent string) (string, error) {
	if _, err := o.transcript.Append(transcript.User, userContent); err != nil {
		return "", err
	}

	scheme := o.transcript.Scheme()
	prompt := o.transcript.Render()
	o.logger.Debug("requesting completion", "scheme", scheme.Name(), "turns", o.transcript.Len(), "prompt", redact(prompt))

	resp, err := o.completer.Complete(ctx, assist.Request{
		Prompt:      prompt,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
		Stop:        scheme.Stop(),
	})
	if err != nil {
		o.logger.Warn("completion failed", "error", err)
		return "", &ServiceInvocationError{Err: err}
	}

	o.usage.RequestCount++
	o.usage.PromptTokens += resp.PromptTokens
	o.usage.CompletionTokens += resp.CompletionTokens
	o.logger.Debug("completion received", "finish_reason", resp.FinishReason, "text", redact(resp.Text))

	content := scheme.Truncate(resp.Text)
	if _, err := o.transcript.Append(transcript.Bot, content); err != nil {
		return "", err
	}

	o.logger.Debug("turn complete",
		"turns", o.transcript.Len(),
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens,
	)
	return content, nil
}
