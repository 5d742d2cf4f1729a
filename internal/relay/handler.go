package relay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/JaimeStill/visage/pkg/handlers"
	"github.com/JaimeStill/visage/pkg/middleware"
	"github.com/JaimeStill/visage/pkg/routes"
)

// FormField is the multipart field carrying the image.
const FormField = "file"

// Handler provides the HTTP endpoint for analyze requests.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "relay"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for the analyze endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyzeFace", Handler: h.Analyze},
		},
	}
}

// Analyze accepts a multipart form with exactly one file under "file" and
// responds with the workflow result, or with {error} / {error, details}.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	trace := NewTrace(middleware.RequestIDFrom(r.Context()))
	logger := h.logger.With("request_id", trace.RequestID)
	logger.Info("analyze request received", "content_length", r.ContentLength)

	var (
		payload Payload
		status  int
	)
	defer func() {
		http.NewResponseController(w).Flush()
		h.sys.Record(r.Context(), trace, payload, status)
	}()

	if err := h.sys.Check(); err != nil {
		trace.Fail(err)
		logger.Error("configuration incomplete", "error", err)
		status = http.StatusInternalServerError
		handlers.RespondError(w, logger, status, ErrNotConfigured)
		return
	}
	trace.Advance(StageConfigChecked)

	payload, err := h.readPayload(w, r)
	if err != nil {
		trace.Fail(err)
		logger.Warn("upload rejected", "error", err)
		status = MapHTTPStatus(err)
		handlers.RespondError(w, logger, status, clientError(err))
		return
	}
	trace.Advance(StageFileChecked)

	result, err := h.sys.Analyze(r.Context(), trace, payload)
	if err != nil {
		status = MapHTTPStatus(err)
		handlers.RespondErrorDetails(w, logger, status, ErrUpstream, Details(err))
		return
	}

	status = http.StatusOK
	handlers.RespondRaw(w, status, result)
}

func (h *Handler) readPayload(w http.ResponseWriter, r *http.Request) (Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr), errors.Is(err, multipart.ErrMessageTooLarge):
			return Payload{}, ErrFileTooLarge
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return Payload{}, ErrNoFile
		default:
			return Payload{}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
		}
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[FormField]
	switch len(headers) {
	case 0:
		return Payload{}, ErrNoFile
	case 1:
	default:
		return Payload{}, fmt.Errorf("%w: received %d", ErrMultipleFiles, len(headers))
	}

	header := headers[0]
	file, err := header.Open()
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}

	return Payload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), header.Filename, data),
	}, nil
}

// clientError strips wrapped detail from precondition errors before they are
// written to the response.
func clientError(err error) error {
	for _, sentinel := range []error{ErrFileTooLarge, ErrNoFile, ErrMultipleFiles, ErrInvalidForm} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}
