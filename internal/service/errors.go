package service

import (
	"errors"

	"vidtube/internal/apperrors"
	"vidtube/internal/repository"
)

// storeError maps repository errors to service errors. Missing rows become
// NotFound with the given message; anything else is internal.
func storeError(err error, notFound, internal string) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrVideoNotFound):
		return apperrors.NotFound(notFound)
	default:
		return apperrors.Internal(internal, err)
	}
}
