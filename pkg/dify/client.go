// Package dify is a client for the two Dify endpoints the relay chains together:
// file upload and blocking workflow execution.
package dify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client sends requests to a single Dify application.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client holding a copy of cfg. The copy is never modified,
// so one Client may be shared by concurrent requests.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		logger: logger.With("system", "dify"),
	}
}

// Validate reports whether the required configuration set is present.
func (c *Client) Validate() error {
	return c.cfg.Validate()
}

// WorkflowID returns the configured workflow id.
func (c *Client) WorkflowID() string {
	return c.cfg.WorkflowID
}

// Upload sends the file to POST {base}/files/upload and returns the Dify file object.
func (c *Client) Upload(ctx context.Context, upload Upload) (*File, error) {
	const op = "upload file"

	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := c.post(ctx, op, "/files/upload", contentType, body)
	if err != nil {
		return nil, err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
	}
	if file.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFileID)
	}

	return &file, nil
}

// RunWorkflow executes the configured workflow in blocking mode with file as the
// image input and returns the response body unmodified.
func (c *Client) RunWorkflow(ctx context.Context, file *File) (json.RawMessage, error) {
	const op = "run workflow"

	if file == nil || file.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingFileID)
	}

	payload, err := json.Marshal(NewRunRequest(file))
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	path := fmt.Sprintf("/workflows/%s/run", c.cfg.WorkflowID)
	data, err := c.post(ctx, op, path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedResponse)
	}

	return json.RawMessage(data), nil
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}

	c.logger.Debug("dify request complete", "op", op, "status", resp.StatusCode, "bytes", len(data))
	return data, nil
}

func encodeUpload(upload Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := upload.Filename
	if filename == "" {
		filename = "file"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="file"; filename="%s"`,
		quoteEscaper.Replace(filename),
	))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("user", DefaultUser); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
