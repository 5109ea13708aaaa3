package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValidationError means the input itself was malformed or missing.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StateConflictError means a lifecycle guard was violated, e.g. approving a
// requisition that is not pending approval.
type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string { return e.Msg }

// AuthorizationError means a role or ownership check failed.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func StateConflict(format string, args ...interface{}) error {
	return &StateConflictError{Msg: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps a service error to the HTTP status code the handlers
// respond with. Unknown errors are treated as internal.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		stateErr      *StateConflictError
		authErr       *AuthorizationError
		notFoundErr   *NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &stateErr):
		return fiber.StatusConflict
	case errors.As(err, &authErr):
		return fiber.StatusForbidden
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
