package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldErrors carries field-tagged validation messages across layers.
type FieldErrors map[string][]string

// Error implements the error interface.
func (f FieldErrors) Error() string { return ErrValidation.Error() }

// Is makes errors.Is(err, ErrValidation) hold for any FieldErrors value.
func (f FieldErrors) Is(target error) bool { return target == ErrValidation }

// Add appends a message for a field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var fields FieldErrors
	switch {
	case errors.As(err, &fields):
		ValidationProblem(w, fields)
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
