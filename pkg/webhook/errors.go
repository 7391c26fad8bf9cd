package webhook

import (
	"errors"
	"fmt"
)

// ErrTransport indicates a network-level failure reaching the webhook after
// the initial attempt and the single no-header retry.
var ErrTransport = errors.New("webhook transport failure")

// ResponseError captures a non-2xx webhook response verbatim.
type ResponseError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("webhook returned %d %s: %s", e.Status, e.StatusText, e.Body)
}
