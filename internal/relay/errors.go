package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JaimeStill/visage/pkg/dify"
)

// GenericDetails is reported when no upstream body is available.
const GenericDetails = "unknown server error"

// Domain errors for analyze requests. Their messages are returned to clients.
var (
	ErrNotConfigured = errors.New("server configuration error")
	ErrNoFile        = errors.New("no file uploaded")
	ErrMultipleFiles = errors.New("exactly one file must be uploaded")
	ErrInvalidForm   = errors.New("invalid multipart form")
	ErrFileTooLarge  = errors.New("file exceeds maximum upload size")
	ErrUpstream      = errors.New("AI service call failed")
)

// MapHTTPStatus maps relay errors to HTTP status codes. A Dify status error
// keeps the status Dify answered with; anything else from the chain is a 500.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, dify.ErrNotConfigured):
		return http.StatusInternalServerError
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrMultipleFiles), errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}

	var se *dify.StatusError
	if errors.As(err, &se) && se.StatusCode >= 100 && se.StatusCode <= 599 {
		return se.StatusCode
	}
	return http.StatusInternalServerError
}

// Details returns the value for the details field of an upstream failure:
// the Dify body as embedded JSON when it is JSON, as a string when it is not,
// and GenericDetails when there is no body.
func Details(err error) any {
	var se *dify.StatusError
	if !errors.As(err, &se) {
		return GenericDetails
	}

	body := bytes.TrimSpace(se.Body)
	switch {
	case len(body) == 0:
		return GenericDetails
	case json.Valid(body):
		return json.RawMessage(body)
	default:
		return string(body)
	}
}
