package ai

import (
	"context"
	"errors"
	"fmt"
)

// Completion is the result of one text-completion call, including the
// provider-reported token usage that billing reconciles against.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Completer is the single capability the correction engine consumes. Test
// doubles script outputs through this interface so the pipeline stays
// deterministic without network access.
type Completer interface {
	Complete(ctx context.Context, instruction, input, model string) (Completion, error)
}

// ErrorKind distinguishes retryable provider failures from terminal ones.
type ErrorKind string

const (
	// ErrorKindTransient covers timeouts, rate limits and 5xx responses;
	// the engine retries these with backoff.
	ErrorKindTransient ErrorKind = "transient"
	// ErrorKindPermanent covers everything else; the job fails immediately.
	ErrorKindPermanent ErrorKind = "permanent"
)

// ProviderError wraps a failed provider call with its retry classification.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

// Error implements error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (%s): %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Transient creates a retryable provider error.
func Transient(err error) *ProviderError {
	return &ProviderError{Kind: ErrorKindTransient, Err: err}
}

// Permanent creates a non-retryable provider error.
func Permanent(err error) *ProviderError {
	return &ProviderError{Kind: ErrorKindPermanent, Err: err}
}

// IsTransient reports whether err is a provider error marked retryable.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Kind == ErrorKindTransient
}
