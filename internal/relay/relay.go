// Package relay implements the analyze endpoint: one uploaded image is sent to
// Dify's file endpoint, and the returned file id feeds a blocking workflow run
// whose result is passed back to the caller unmodified.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/visage/internal/runs"
	"github.com/JaimeStill/visage/pkg/dify"
)

const recordTimeout = 5 * time.Second

// Client is the part of *dify.Client the relay chains together.
type Client interface {
	Validate() error
	WorkflowID() string
	Upload(ctx context.Context, upload dify.Upload) (*dify.File, error)
	RunWorkflow(ctx context.Context, file *dify.File) (json.RawMessage, error)
}

// Recorder persists the outcome of finished requests.
type Recorder interface {
	Record(ctx context.Context, cmd runs.CreateCommand) (*runs.Run, error)
}

// System defines the public contract for the relay domain.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Check reports ErrNotConfigured when the Dify configuration set is incomplete.
	Check() error

	// Analyze uploads payload and runs the workflow with the resulting file id.
	// The workflow is never started unless the upload produced a file id.
	Analyze(ctx context.Context, trace *Trace, payload Payload) (json.RawMessage, error)

	// Record stores the outcome of trace when a Recorder is configured.
	// Failures are logged and never surface to the caller.
	Record(ctx context.Context, trace *Trace, payload Payload, status int)
}

type relay struct {
	client   Client
	recorder Recorder
	logger   *slog.Logger
}

// New creates the relay system. recorder may be nil, in which case nothing
// about a request outlives it.
func New(client Client, recorder Recorder, logger *slog.Logger) System {
	return &relay{
		client:   client,
		recorder: recorder,
		logger:   logger.With("system", "relay"),
	}
}

func (r *relay) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *relay) Check() error {
	if err := r.client.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}
	return nil
}

func (r *relay) Analyze(ctx context.Context, trace *Trace, payload Payload) (json.RawMessage, error) {
	logger := r.logger.With("request_id", trace.RequestID)

	if err := r.Check(); err != nil {
		return nil, r.fail(logger, trace, err)
	}

	trace.Advance(StageUploading)
	logger.Info("uploading file",
		"filename", payload.Filename,
		"content_type", payload.ContentType,
		"size", payload.Size(),
	)

	file, err := r.client.Upload(ctx, payload.upload())
	if err != nil {
		return nil, r.fail(logger, trace, err)
	}

	trace.FileID = file.ID
	trace.Advance(StageUploaded)
	logger.Info("file uploaded", "file_id", file.ID)

	trace.Advance(StageExecuting)
	logger.Info("executing workflow", "workflow_id", r.client.WorkflowID(), "file_id", file.ID)

	result, err := r.client.RunWorkflow(ctx, file)
	if err != nil {
		return nil, r.fail(logger, trace, err)
	}

	trace.Advance(StageCompleted)
	logger.Info("workflow completed", "bytes", len(result), "duration", trace.Duration())

	return result, nil
}

func (r *relay) Record(ctx context.Context, trace *Trace, payload Payload, status int) {
	if r.recorder == nil {
		return
	}

	cmd := runs.CreateCommand{
		RequestID:    trace.RequestID,
		Filename:     payload.Filename,
		ContentType:  payload.ContentType,
		SizeBytes:    payload.Size(),
		Stage:        string(trace.Reached),
		Status:       runs.StatusCompleted,
		HTTPStatus:   status,
		UploadFileID: trace.FileID,
		Duration:     trace.Duration(),
	}
	if trace.Stage == StageErrored {
		cmd.Status = runs.StatusErrored
		if trace.Err != nil {
			cmd.Error = trace.Err.Error()
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if _, err := r.recorder.Record(ctx, cmd); err != nil {
		r.logger.Warn("run not recorded", "request_id", trace.RequestID, "error", err)
	}
}

func (r *relay) fail(logger *slog.Logger, trace *Trace, err error) error {
	trace.Fail(err)

	attrs := []any{"stage", trace.Reached, "error", err}

	var se *dify.StatusError
	if errors.As(err, &se) {
		attrs = append(attrs, "upstream_status", se.StatusCode, "upstream_body", string(se.Body))
	}

	logger.Error("analyze failed", attrs...)
	return err
}
