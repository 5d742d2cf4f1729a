package dify

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates the base URL, API key, or workflow id is missing.
	ErrNotConfigured = errors.New("dify not configured")
	// ErrMalformedResponse indicates a 2xx response whose body could not be used.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingFileID indicates the upload response carried no file id.
	ErrMissingFileID = errors.New("upload response missing file id")
)

// StatusError is returned when Dify answers with a non-2xx status.
// Body holds the raw response body for relaying to the caller.
type StatusError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Op, e.StatusCode)
}
