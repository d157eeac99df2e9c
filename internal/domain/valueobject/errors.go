package valueobject

import "errors"

var (
	ErrInvalidURL   = errors.New("invalid url format")
	ErrInvalidAlias = errors.New("invalid custom alias format")
	ErrInvalidTitle = errors.New("invalid title")
)
