package valueobject

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinAliasLength = 3
	MaxAliasLength = 32
	MaxTitleLength = 255
)

var aliasRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedAliases collide with top-level HTTP routes.
var reservedAliases = []interface{}{"r", "v1", "api", "healthz"}

// ValidateAlias checks a user-chosen alias. An empty alias is valid: it means
// "no alias".
func ValidateAlias(alias string) error {
	return validation.Validate(alias,
		validation.Length(MinAliasLength, MaxAliasLength).Error("alias must be 3-32 characters"),
		validation.Match(aliasRegex).Error("alias may contain only letters, digits, underscores and hyphens"),
		validation.NotIn(reservedAliases...).Error("alias is reserved"),
	)
}

// ValidateTitle checks the free-text label of a link.
func ValidateTitle(title string) error {
	return validation.Validate(title,
		validation.Required.Error("title is required"),
		validation.RuneLength(0, MaxTitleLength).Error("title must be at most 255 characters"),
	)
}
