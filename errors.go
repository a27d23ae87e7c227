package toolfix

import (
	"errors"
	"fmt"
)

// Sentinel errors for toolfix. Use errors.Is to check.
var (
	ErrToolNotFound       = errors.New("tool not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidSchema      = errors.New("invalid tool schema")
	ErrDiscardedArguments = errors.New("arguments were discarded during repair")
)

// ClientError is an error that should be sent back to the LLM for self-correction
// (e.g. arguments that still violate the schema after repair).
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	// Retryable is set by the application (not by toolfix). When true, the orchestrator
	// may ask the model to retry the same call.
	Retryable bool
	Err       error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool call: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrValidation)).
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError represents an internal failure (schema compiler crash, marshal failure).
// The LLM should not see the underlying error message.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during tool call validation"
}

func (e *SystemError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

func invalidSchema(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSchema, fmt.Sprintf(format, args...))
}
