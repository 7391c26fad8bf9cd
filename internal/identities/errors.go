package identities

import (
	"errors"
	"net/http"
)

// Domain errors for identity record operations.
var (
	ErrNotFound        = errors.New("identity record not found")
	ErrDuplicate       = errors.New("identity record already exists")
	ErrSessionRequired = errors.New("session id is required")
	ErrInvalidRequest  = errors.New("invalid identity record request")
)

// MapHTTPStatus maps identity domain errors to HTTP status codes.
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
