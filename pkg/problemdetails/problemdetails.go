// Package problemdetails renders kratos errors as RFC 7807 documents.
package problemdetails

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/samber/lo"
)

// ContentType is the media type of every problem document.
const ContentType = "application/problem+json"

const typeBase = "https://trimlink.dev/problems/"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ProblemDetail struct {
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Status int          `json:"status"`
	Detail string       `json:"detail"`
	Reason string       `json:"reason,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

func New(status int, reason, detail string) *ProblemDetail {
	problemType := "about:blank"
	if reason != "" {
		problemType = fmt.Sprintf("%s%s", typeBase, reason)
	}
	return &ProblemDetail{
		Type:   problemType,
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
		Reason: reason,
	}
}

// FromError converts any error to a problem. Errors that are not kratos
// errors become a 500 with the unknown reason.
func FromError(err error) *ProblemDetail {
	se := errors.FromError(err)
	p := New(int(se.Code), se.Reason, se.Message)
	if len(se.Metadata) > 0 {
		p.Errors = lo.MapToSlice(se.Metadata, func(field, message string) FieldError {
			return FieldError{Field: field, Message: message}
		})
		slices.SortFunc(p.Errors, func(a, b FieldError) int {
			return cmp.Compare(a.Field, b.Field)
		})
	}
	return p
}

// Encode is a kratos http ErrorEncoder.
func Encode(w http.ResponseWriter, _ *http.Request, err error) {
	p := FromError(err)
	body, mErr := json.Marshal(p)
	if mErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_, _ = w.Write(body)
}
