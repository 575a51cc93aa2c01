package application

import (
	"errors"
	"fmt"

	repo "github.com/oksasatya/go-ddd-catalog/internal/domain/repository"
)

var (
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrPersistence        = errors.New("persistence failure")
	ErrUnavailable        = errors.New("service unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError rejects a request before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// translate maps repository sentinels onto the service taxonomy. what names
// the operation and ends up in the message.
func translate(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repo.ErrDuplicate):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", what, ErrPersistence, err)
	}
}
