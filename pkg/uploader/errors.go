package uploader

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation and selection errors.
var (
	ErrUnknownProvider = errors.New("unknown storage provider")
	ErrUnknownCategory = errors.New("unknown document category")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrUnsupportedType = errors.New("file type not accepted")
	ErrEmptyFile       = errors.New("file is empty")
)

// UploadError reports a single failed backend call. StatusCode is zero for
// transport-level failures that never produced an HTTP response.
type UploadError struct {
	Backend    string
	Filename   string
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s upload of %q failed with status %d: %s",
			e.Backend, e.Filename, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s upload of %q failed: %s", e.Backend, e.Filename, e.Message)
}

// MapHTTPStatus maps uploader errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrUnknownCategory) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
