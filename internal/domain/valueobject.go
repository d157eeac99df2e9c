package domain

import (
	"trimlink/internal/domain/valueobject"
)

// Re-export value object types for convenience.
// This allows consumers to import from domain package directly.
type (
	OriginalURL   = valueobject.OriginalURL
	CodeGenerator = valueobject.CodeGenerator
)

// Re-export value object constructors and validators.
var (
	NewOriginalURL      = valueobject.NewOriginalURL
	NewCodeGenerator    = valueobject.NewCodeGenerator
	ValidateOriginalURL = valueobject.ValidateOriginalURL
	ValidateAlias       = valueobject.ValidateAlias
	ValidateTitle       = valueobject.ValidateTitle
)

// Re-export value object constants.
const (
	DefaultCodeLength = valueobject.DefaultCodeLength
	MinAliasLength    = valueobject.MinAliasLength
	MaxAliasLength    = valueobject.MaxAliasLength
)
