package generator

import (
	"errors"
	"fmt"
)

// Sentinel errors for the generation pipeline.
var (
	// ErrEmptyDocument is returned when no document bytes were supplied.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrInvalidDocument is returned when the supplied bytes are not a
	// readable PDF.
	ErrInvalidDocument = errors.New("document is not a valid PDF")

	// ErrUpstream marks transport or model-service failures.
	ErrUpstream = errors.New("model call failed")

	// ErrMalformedResponse marks responses that are not valid JSON or do
	// not match the requested schema.
	ErrMalformedResponse = errors.New("model returned malformed response")
)

// upstreamError wraps a cause so callers can match ErrUpstream with
// errors.Is while keeping the underlying detail.
func upstreamError(cause error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, cause)
}

func malformedError(cause error) error {
	return fmt.Errorf("%w: %w", ErrMalformedResponse, cause)
}

// IsInputError reports whether err is a caller error recoverable by
// supplying a proper document.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyDocument) || errors.Is(err, ErrInvalidDocument)
}
