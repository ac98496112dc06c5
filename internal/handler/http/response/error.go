package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their kind
func HandleError(w http.ResponseWriter, err error) {
	// Field validation carries per-field details
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	message := "An unexpected error occurred"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch apperror.KindOf(err) {
	case apperror.ErrValidation:
		fail(w, http.StatusUnprocessableEntity, CodeValidation, message, nil)
	case apperror.ErrNotFound:
		NotFound(w, message)
	case apperror.ErrStateConflict:
		Conflict(w, message)
	case apperror.ErrPermission:
		Forbidden(w, message)

	// Persistence failures and anything unclassified
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
