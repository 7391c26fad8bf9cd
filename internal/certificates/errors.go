package certificates

import (
	"errors"
	"net/http"
)

// Domain errors for certificate record operations.
var (
	ErrNotFound        = errors.New("certificate record not found")
	ErrDuplicate       = errors.New("certificate record already exists")
	ErrSessionRequired = errors.New("session id is required")
	ErrInvalidRequest  = errors.New("invalid certificate record request")
)

// MapHTTPStatus maps certificate domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrSessionRequired) || errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
