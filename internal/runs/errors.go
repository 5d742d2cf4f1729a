package runs

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/visage/pkg/database"
)

// Domain errors for run history operations.
var (
	ErrNotFound   = errors.New("run not found")
	ErrDuplicate  = errors.New("run already exists")
	ErrInvalidID  = errors.New("invalid run id")
	ErrBadRequest = errors.New("invalid search request")
)

// MapHTTPStatus maps run domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
