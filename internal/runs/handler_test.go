package runs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/visage/internal/runs"
	"github.com/JaimeStill/visage/pkg/database"
	"github.com/JaimeStill/visage/pkg/pagination"
	"github.com/JaimeStill/visage/pkg/routes"
)

var testPagination = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*runs.Run, error)
	recordFn func(ctx context.Context, cmd runs.CreateCommand) (*runs.Run, error)
}

func (m *mockSystem) Handler() *runs.Handler {
	return runs.NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), testPagination)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*runs.Run, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Record(ctx context.Context, cmd runs.CreateCommand) (*runs.Run, error) {
	return m.recordFn(ctx, cmd)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	return mux
}

func sampleRun() runs.Run {
	fileID := "abc123"
	return runs.Run{
		ID:           uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		RequestID:    "6f1c2d4e-8a7b-4c3d-9e2f-1a0b9c8d7e6f",
		Filename:     "face.jpg",
		ContentType:  "image/jpeg",
		SizeBytes:    2048,
		Stage:        "completed",
		Status:       runs.StatusCompleted,
		HTTPStatus:   http.StatusOK,
		UploadFileID: &fileID,
		DurationMS:   1530,
		CreatedAt:    time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
	}
}

func TestHandlerList(t *testing.T) {
	run := sampleRun()
	var captured runs.Filters
	var capturedPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error) {
			captured = filters
			capturedPage = page
			result := pagination.NewPageResult([]runs.Run{run}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/runs?status=errored&filename=face&page=2&page_size=500", nil)
	setupMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[runs.Run]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].ID != run.ID {
		t.Errorf("data = %+v", result.Data)
	}

	if captured.Status == nil || *captured.Status != "errored" {
		t.Errorf("status filter = %v", captured.Status)
	}
	if captured.Filename == nil || *captured.Filename != "face" {
		t.Errorf("filename filter = %v", captured.Filename)
	}
	if captured.Stage != nil {
		t.Errorf("stage filter should be nil, got %v", *captured.Stage)
	}
	if capturedPage.Page != 2 || capturedPage.PageSize != 100 {
		t.Errorf("page = %d/%d, want 2/100", capturedPage.Page, capturedPage.PageSize)
	}
}

func TestHandlerSearch(t *testing.T) {
	var captured runs.Filters
	var capturedPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters runs.Filters) (*pagination.PageResult[runs.Run], error) {
			captured = filters
			capturedPage = page
			result := pagination.NewPageResult[runs.Run](nil, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}
	mux := setupMux(sys)

	t.Run("decodes body", func(t *testing.T) {
		body := `{"page":1,"stage":"uploading","sort":"-CreatedAt"}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/runs/search", bytes.NewBufferString(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Stage == nil || *captured.Stage != "uploading" {
			t.Errorf("stage filter = %v", captured.Stage)
		}
		if capturedPage.PageSize != 20 {
			t.Errorf("page size = %d, want default 20", capturedPage.PageSize)
		}
		if len(capturedPage.Sort) != 1 || !capturedPage.Sort[0].Descending {
			t.Errorf("sort = %+v", capturedPage.Sort)
		}
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/runs/search", bytes.NewBufferString("{")))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	run := sampleRun()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*runs.Run, error) {
			if id == run.ID {
				return &run, nil
			}
			return nil, runs.ErrNotFound
		},
	}
	mux := setupMux(sys)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/runs/" + run.ID.String(), http.StatusOK},
		{"missing", "/runs/" + uuid.NewString(), http.StatusNotFound},
		{"malformed id", "/runs/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				var body map[string]string
				json.NewDecoder(rec.Body).Decode(&body)
				if body["error"] == "" {
					t.Error("expected error field")
				}
			}
		})
	}
}

func TestHandlerDatabaseNotReady(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, pagination.PageRequest, runs.Filters) (*pagination.PageResult[runs.Run], error) {
			return nil, database.ErrNotReady
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("GET", "/runs", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
