package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/service"
	apperrors "github.com/spec-kit/cryptid/pkg/util"
)

// translateError maps errors raised anywhere below the router to a single
// DomainError. verbose exposes the precise reason of a failed login.
func translateError(err error, verbose bool) *apperrors.DomainError {
	var (
		domainErr *apperrors.DomainError
		authErr   *auth.AuthenticationError
		forbidden *auth.ForbiddenError
		entityErr *domain.EntityError
		fiberErr  *fiber.Error
	)

	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.As(err, &authErr):
		message := authErr.Error()
		if verbose {
			message = authErr.Detail()
		}
		return asDomainError(apperrors.NewUnauthorized(message, err))
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrTokenInvalid):
		message := "not authenticated"
		if verbose || errors.Is(err, auth.ErrTokenExpired) {
			message = err.Error()
		}
		return asDomainError(apperrors.NewUnauthorized(message, err))
	case errors.As(err, &forbidden):
		return asDomainError(apperrors.NewForbidden(forbidden.Error(), err))
	case errors.Is(err, auth.ErrForbidden):
		return asDomainError(apperrors.NewForbidden("forbidden", err))
	case errors.Is(err, auth.ErrCorruptCredential):
		return asDomainError(apperrors.NewInternalError(err))
	case errors.Is(err, service.ErrRefreshDisabled):
		return asDomainError(apperrors.NewNotFound(err.Error(), err))
	case errors.As(err, &entityErr) && errors.Is(err, domain.ErrNotFound):
		return asDomainError(apperrors.NewNotFound(entityErr.Error(), err))
	case errors.As(err, &entityErr) && errors.Is(err, domain.ErrAlreadyExists):
		return asDomainError(apperrors.NewConflict(entityErr.Error(), err))
	case errors.As(err, &fiberErr):
		return fromFiberError(fiberErr)
	default:
		return apperrors.ToDomainError(err)
	}
}

func fromFiberError(e *fiber.Error) *apperrors.DomainError {
	code := apperrors.CodeInternal
	switch e.Code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		code = apperrors.CodeValidationFailed
	case fiber.StatusUnauthorized:
		code = apperrors.CodeUnauthorized
	case fiber.StatusForbidden:
		code = apperrors.CodeForbidden
	case fiber.StatusNotFound:
		code = apperrors.CodeNotFound
	case fiber.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case fiber.StatusConflict:
		code = apperrors.CodeConflict
	case fiber.StatusRequestTimeout, fiber.StatusGatewayTimeout:
		code = "TIMEOUT"
	}
	if e.Code < fiber.StatusInternalServerError || code != apperrors.CodeInternal {
		return apperrors.NewDomainError(code, e.Message, e.Code, nil)
	}
	return asDomainError(apperrors.NewInternalError(e))
}

func asDomainError(err error) *apperrors.DomainError {
	return err.(*apperrors.DomainError)
}
