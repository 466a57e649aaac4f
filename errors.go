package bedrockai

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies stream and transport errors by origin.
type ErrorCategory string

const (
	// ErrorInternalServer indicates a server-side failure in the model service.
	ErrorInternalServer ErrorCategory = "internal_server"

	// ErrorThrottling indicates the request was rejected due to rate limiting.
	ErrorThrottling ErrorCategory = "throttling"

	// ErrorValidation indicates the request was rejected as malformed.
	ErrorValidation ErrorCategory = "validation"

	// ErrorServiceUnavailable indicates the model service is temporarily down.
	ErrorServiceUnavailable ErrorCategory = "service_unavailable"

	// ErrorStream indicates a failure in the event stream itself, including
	// protocol violations detected while accumulating events.
	ErrorStream ErrorCategory = "stream"
)

// CategorizedError is an error that carries handling metadata.
type CategorizedError interface {
	error
	Category() ErrorCategory
	// Retryable returns true for transient failures a caller may retry.
	Retryable() bool
}

// StreamError is a categorized transport or protocol error raised by a stream
// source or by the accumulator. The orchestration loop never retries these;
// retry policy belongs to the caller (see the retry package).
type StreamError struct {
	Msg   string
	Cat   ErrorCategory
	Cause error
}

// NewStreamError creates a StreamError with the given category.
func NewStreamError(cat ErrorCategory, msg string, cause error) *StreamError {
	return &StreamError{Msg: msg, Cat: cat, Cause: cause}
}

// Error returns the error message.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *StreamError) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient.
func (e *StreamError) Retryable() bool {
	return e.Cat == ErrorThrottling || e.Cat == ErrorServiceUnavailable || e.Cat == ErrorInternalServer
}

// ConfigError indicates invalid caller input: an empty prompt, a temperature
// out of range, a duplicate tool name. It is always raised synchronously,
// before any network interaction, and is never retried.
type ConfigError struct {
	Msg string
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return "config: " + e.Msg
}

// NewConfigError creates a ConfigError.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IterationLimitError indicates the tool use loop exceeded its iteration cap.
// It is fatal: no partial result accompanies it.
type IterationLimitError struct {
	Limit int
}

// Error returns the error message.
func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("agent: tool iteration limit of %d exceeded", e.Limit)
}

// IsRetryable returns true if the error, or any error it wraps, is a
// transient categorized error.
func IsRetryable(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Retryable()
	}
	return false
}

// CategoryOf returns the category of a categorized error, or "" if the error
// carries none.
func CategoryOf(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return ""
}
