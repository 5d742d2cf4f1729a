// Package runs records one row per analyze request and serves the history
// over the API. Only metadata is stored; image bytes and workflow results
// never reach the database.
package runs

import (
	"time"

	"github.com/google/uuid"
)

// Terminal run statuses.
const (
	StatusCompleted = "completed"
	StatusErrored   = "errored"
)

// Run is the recorded outcome of one analyze request.
type Run struct {
	ID           uuid.UUID `json:"id"`
	RequestID    string    `json:"request_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Stage        string    `json:"stage"`
	Status       string    `json:"status"`
	HTTPStatus   int       `json:"http_status"`
	UploadFileID *string   `json:"upload_file_id"`
	Error        *string   `json:"error"`
	DurationMS   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCommand carries the outcome of a finished analyze request.
// Empty UploadFileID and Error are stored as NULL.
type CreateCommand struct {
	RequestID    string
	Filename     string
	ContentType  string
	SizeBytes    int64
	Stage        string
	Status       string
	HTTPStatus   int
	UploadFileID string
	Error        string
	Duration     time.Duration
}
