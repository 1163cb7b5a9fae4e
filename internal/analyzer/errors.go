package analyzer

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the model answers with no usable text.
	ErrEmptyResponse = errors.New("the AI model returned an empty response")
	// ErrInvalidFormat is returned when the sanitized reply fails schema validation.
	// The validation detail is logged, never returned.
	ErrInvalidFormat = errors.New("the AI model returned a response with an invalid format")
)

// RetryExhaustedError is returned when every attempt failed with a transient error.
type RetryExhaustedError struct {
	Attempts int
	Err      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("analysis failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Err }

// Error kinds reported by ErrorKind.
const (
	KindEmptyResponse    = "empty_response"
	KindInvalidFormat    = "invalid_format"
	KindRetriesExhausted = "retries_exhausted"
	KindCanceled         = "canceled"
	KindUnexpected       = "unexpected"
)

// ErrorKind names the terminal state an Analyze error belongs to.
func ErrorKind(err error) string {
	var exhausted *RetryExhaustedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	case errors.Is(err, ErrInvalidFormat):
		return KindInvalidFormat
	case errors.As(err, &exhausted):
		return KindRetriesExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnexpected
	}
}
