package apierr

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is a request-level failure with a fixed HTTP status and client-facing
// message. Handlers return these instead of writing to the response directly;
// Write is the single place they are translated to the wire.
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// BadRequest reports malformed or conflicting client input.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized reports missing, invalid, or expired credentials.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// NotFound reports an absent entity.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Internal reports a downstream dependency failure.
func Internal(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// From converts any error into an *Error. Errors that are not already part of
// the taxonomy become opaque 500s so internal details never leak to clients.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal("Something went wrong")
}

// Write translates err to the JSON error body {"status": ..., "message": ...}.
func Write(w http.ResponseWriter, err error) {
	apiErr := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(apiErr)
}
