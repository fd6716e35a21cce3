package kernel

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the taxonomy from the error handling design:
// ValidationError, NotFoundError, ResourceError, and DomainError are
// distinguished by wrapping one of these and checking with
// errors.Is/errors.As.
var (
	// ErrValidation marks an error produced by schema validation.
	ErrValidation = errors.New("input validation failed")

	// ErrNotFound marks an unknown tool, connection id, or database object.
	ErrNotFound = errors.New("not found")

	// ErrResource marks pool exhaustion, I/O failure, or timeout.
	ErrResource = errors.New("resource error")

	// ErrDomain marks a semantic rejection by a handler.
	ErrDomain = errors.New("domain error")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Resourcef wraps ErrResource with a formatted message.
func Resourcef(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrResource)
}

// Domainf wraps ErrDomain with a formatted message.
func Domainf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDomain)
}
