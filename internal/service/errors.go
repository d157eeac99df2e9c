package service

import (
	"context"
	stderrors "errors"

	"trimlink/internal/domain"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware/auth/jwt"
)

const (
	ReasonValidationFailed   = "VALIDATION_FAILED"
	ReasonAliasTaken         = "ALIAS_TAKEN"
	ReasonCodeSpaceExhausted = "CODE_SPACE_EXHAUSTED"
	ReasonLinkNotFound       = "LINK_NOT_FOUND"
	ReasonNotLinkOwner       = "NOT_LINK_OWNER"
	ReasonUnauthorized       = "UNAUTHORIZED"
	ReasonInternal           = "INTERNAL_ERROR"
)

// toAPIError maps domain errors to kratos errors with stable reasons.
func toAPIError(err error) error {
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	switch {
	case stderrors.As(err, &verr):
		return errors.BadRequest(ReasonValidationFailed, verr.Error()).WithMetadata(verr.Fields)
	case stderrors.Is(err, domain.ErrConflict):
		return errors.Conflict(ReasonAliasTaken, err.Error())
	case stderrors.Is(err, domain.ErrResourceExhausted):
		return errors.ServiceUnavailable(ReasonCodeSpaceExhausted, err.Error())
	case stderrors.Is(err, domain.ErrNotFound):
		return errors.NotFound(ReasonLinkNotFound, "link not found")
	case stderrors.Is(err, domain.ErrForbidden):
		return errors.Forbidden(ReasonNotLinkOwner, err.Error())
	default:
		return errors.InternalServer(ReasonInternal, "internal error").WithCause(err)
	}
}

// ownerFromContext returns the subject of the verified JWT.
func ownerFromContext(ctx context.Context) (string, error) {
	claims, ok := jwt.FromContext(ctx)
	if !ok {
		return "", errors.Unauthorized(ReasonUnauthorized, "missing credentials")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.Unauthorized(ReasonUnauthorized, "token has no subject")
	}
	return sub, nil
}
