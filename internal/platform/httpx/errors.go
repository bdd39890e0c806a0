// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/boosteam/boosteam-api/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		ValidationProblem(w, fieldErrs)
	case errors.Is(err, shared.ErrMissingCredential),
		errors.Is(err, shared.ErrInvalidCredential),
		errors.Is(err, shared.ErrUnauthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrPrincipalNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrRoleInUse):
		Problem(w, http.StatusConflict, "Role In Use", err.Error())
	case errors.Is(err, shared.ErrDuplicateRole),
		errors.Is(err, shared.ErrDuplicatePermission),
		errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrStorageUnavailable):
		Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// ValidationProblem reports struct validation failures keyed by field name.
func ValidationProblem(w http.ResponseWriter, fieldErrs validator.ValidationErrors) {
	fields := make(map[string]string, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}
	JSON(w, http.StatusBadRequest, ProblemDetail{
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: shared.ErrValidation.Error(),
		Errors: fields,
	})
}
