// Package services provides the application services between the HTTP layer
// and the generation engine, with standardized error types.
package services

import (
	"errors"
	"fmt"

	"github.com/flowsmith/flowsmith/pkg/store"
)

// Business logic errors, mapped to 4xx responses by the web layer.
var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooShort = errors.New("description is too short to generate from")
	ErrDescriptionTooLong  = errors.New("description exceeds the allowed length")
	ErrInvalidTriggerType  = errors.New("invalid trigger type")
	ErrInvalidComplexity   = errors.New("invalid complexity band")
	ErrWorkflowNil         = errors.New("workflow cannot be nil")

	// ErrRecordNotFound is returned when a stored generation result is gone.
	ErrRecordNotFound = store.ErrNotFound

	// ErrGenerationFailed is the hard failure: no nodes at all could be
	// constructed. Should not occur with a correctly loaded catalog.
	ErrGenerationFailed = errors.New("workflow generation produced no nodes")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDescriptionRequired) ||
		errors.Is(err, ErrDescriptionTooShort) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrInvalidTriggerType) ||
		errors.Is(err, ErrInvalidComplexity) ||
		errors.Is(err, ErrWorkflowNil)
}

// IsNotFoundError checks if an error should map to HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
