package valueobject

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const MaxOriginalURLLength = 2048

// OriginalURL is a value object representing the destination of a short link.
// It is immutable and validated on creation.
type OriginalURL struct {
	value  string
	parsed *url.URL
}

// ValidateOriginalURL reports the first rule the raw URL violates, phrased for
// field-level error messages.
func ValidateOriginalURL(rawURL string) error {
	return validation.Validate(rawURL,
		validation.Required.Error("url is required"),
		validation.Length(0, MaxOriginalURLLength).Error("url must be at most 2048 characters"),
		is.URL.Error("must be a valid URL"),
		validation.By(absoluteHTTP),
	)
}

func absoluteHTTP(value interface{}) error {
	s, _ := value.(string)
	parsed, err := url.ParseRequestURI(s)
	if err != nil {
		return errors.New("must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("scheme must be http or https")
	}
	if parsed.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}

// NewOriginalURL creates a new OriginalURL from a string, validating the format.
func NewOriginalURL(rawURL string) (OriginalURL, error) {
	if err := ValidateOriginalURL(rawURL); err != nil {
		return OriginalURL{}, ErrInvalidURL
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return OriginalURL{}, ErrInvalidURL
	}

	return OriginalURL{
		value:  rawURL,
		parsed: parsed,
	}, nil
}

// String returns the string representation of the OriginalURL.
func (o OriginalURL) String() string {
	return o.value
}

// Host returns the host portion of the URL.
func (o OriginalURL) Host() string {
	if o.parsed == nil {
		return ""
	}
	return o.parsed.Host
}

// IsEmpty returns true if the OriginalURL is empty.
func (o OriginalURL) IsEmpty() bool {
	return o.value == ""
}
