package runs

import (
	"net/url"

	"github.com/JaimeStill/visage/pkg/query"
	"github.com/JaimeStill/visage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "relay_runs", "r").
	Project("id", "ID").
	Project("request_id", "RequestID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("stage", "Stage").
	Project("status", "Status").
	Project("http_status", "HTTPStatus").
	Project("upload_file_id", "UploadFileID").
	Project("error", "Error").
	Project("duration_ms", "DurationMS").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows run queries. Nil fields are ignored; Status and Stage match
// exactly, Filename is a case-insensitive contains match.
type Filters struct {
	Status   *string `json:"status,omitempty"`
	Stage    *string `json:"stage,omitempty"`
	Filename *string `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Stage", f.Stage).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if s := values.Get("stage"); s != "" {
		f.Stage = &s
	}
	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.RequestID,
		&r.Filename,
		&r.ContentType,
		&r.SizeBytes,
		&r.Stage,
		&r.Status,
		&r.HTTPStatus,
		&r.UploadFileID,
		&r.Error,
		&r.DurationMS,
		&r.CreatedAt,
	)
	return r, err
}
