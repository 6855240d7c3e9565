package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates no session could be resolved.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotFound covers both a missing record and an ownership mismatch;
	// callers cannot tell the two apart.
	ErrNotFound = errors.New("inspiration not found")

	// ErrValidation indicates a missing or malformed required field.
	ErrValidation = errors.New("validation failed")

	// ErrStorageUnavailable indicates an object store call failed.
	ErrStorageUnavailable = errors.New("object storage unavailable")

	// ErrSuggestionUnavailable indicates the AI call failed or returned
	// nothing. Non-fatal; callers degrade to manual entry.
	ErrSuggestionUnavailable = errors.New("no suggestion available")
)

// MaxPayloadBytes is the upload size limit for a single asset payload.
const MaxPayloadBytes = 120 << 20 // 120 MiB

// PayloadTooLargeError reports an asset payload exceeding MaxPayloadBytes.
type PayloadTooLargeError struct {
	Size int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload of %d bytes exceeds limit of %d bytes", e.Size, int64(MaxPayloadBytes))
}
