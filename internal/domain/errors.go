package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"trimlink/internal/domain/valueobject"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrNotFound          = errors.New("link not found")
	ErrConflict          = errors.New("identifier already taken")
	ErrResourceExhausted = errors.New("no free short code within retry budget")
	ErrForbidden         = errors.New("caller does not own the link")
	ErrValidation        = errors.New("validation failed")

	// ErrDuplicateKey is the storage-layer signal that an insert violated
	// identifier uniqueness.
	ErrDuplicateKey = errors.New("duplicate key")

	ErrAssetStoreDisabled  = errors.New("asset store not configured")
	ErrLocationUnavailable = errors.New("location unavailable")

	// Re-export value object errors for convenience.
	ErrInvalidURL   = valueobject.ErrInvalidURL
	ErrInvalidAlias = valueobject.ErrInvalidAlias
)

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError converts ozzo-validation field errors. It returns nil
// when errs holds no failures.
func NewValidationError(errs validation.Errors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for field, err := range errs {
		if err != nil {
			fields[field] = err.Error()
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DuplicateKeyError reports which identifier an insert collided on.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
