package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/report"
)

const testKey = "test-api-key"

func testConfig() config.Config {
	return config.Config{
		APIKey:          testKey,
		WorkerCount:     1,
		MaxQueueSize:    4,
		MaxUploadBytes:  1 << 20,
		MaxDocuments:    10,
		SectionLimit:    20,
		PassageLimit:    15,
		MinPassageWords: 5,
		JobTTL:          time.Hour,
	}
}

// newTestServer returns a server whose orchestrator workers are running
// when started is true, and a cleanup-registered stop.
func newTestServer(t *testing.T, started bool) *Server {
	t.Helper()
	cfg := testConfig()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := pipeline.NewAnalyzer(cfg, nil, log)
	orch := pipeline.NewOrchestrator(cfg, analyzer, log)
	if started {
		orch.Start(context.Background())
		t.Cleanup(orch.Stop)
	}
	return NewServer(orch, log, cfg)
}

func multipartBatch(t *testing.T, persona, job string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if persona != "" {
		w.WriteField("persona", persona)
	}
	if job != "" {
		w.WriteField("job", job)
	}
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte(content))
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testKey)
	return req
}

func TestHealth_NoAuthRequired(t *testing.T) {
	srv := newTestServer(t, false)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestAuth_MissingAndWrongKey(t *testing.T) {
	srv := newTestServer(t, false)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", rec.Code)
	}
}

func TestAnalyze_MissingPersona(t *testing.T) {
	srv := newTestServer(t, false)
	body, ctype := multipartBatch(t, "", "plan a trip", map[string]string{"a.txt": "some document text"})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/analyze", body))
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyze_NoUsableFiles(t *testing.T) {
	srv := newTestServer(t, false)
	body, ctype := multipartBatch(t, "p", "j", map[string]string{"a.exe": "binary junk"})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/analyze", body))
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyze_ResultConflictWhileQueued(t *testing.T) {
	// Orchestrator not started: the job stays queued.
	srv := newTestServer(t, false)
	body, ctype := multipartBatch(t, "travel planner", "plan a coastal trip", map[string]string{
		"towns.txt": "Coastal Towns\nThe coastal towns offer quiet beaches and excellent seafood restaurants nearby.",
	})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/analyze", body))
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID     string `json:"job_id"`
		ResultURL string `json:"result_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accept payload: %v", err)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, accepted.ResultURL, nil)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unfinished job, got %d", rec.Code)
	}
}

func TestAnalyze_EndToEnd(t *testing.T) {
	srv := newTestServer(t, true)
	body, ctype := multipartBatch(t, "travel planner", "plan a coastal trip for friends", map[string]string{
		"towns.txt":   "Coastal Towns\nThe coastal towns offer quiet beaches and excellent seafood restaurants nearby.",
		"lodging.txt": "Budget Lodging\nHostels and guesthouses near the old town cost far less than seafront hotels.",
	})
	req := authed(httptest.NewRequest(http.MethodPost, "/api/analyze", body))
	req.Header.Set("Content-Type", ctype)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted struct {
		JobID     string `json:"job_id"`
		PollURL   string `json:"poll_url"`
		ResultURL string `json:"result_url"`
		Files     int    `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode accept payload: %v", err)
	}
	if accepted.Files != 2 {
		t.Errorf("expected 2 accepted files, got %d", accepted.Files)
	}

	// Poll until the worker finishes.
	deadline := time.Now().Add(5 * time.Second)
	var snap pipeline.JobSnapshot
	for {
		rec = httptest.NewRecorder()
		srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, accepted.PollURL, nil)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status poll returned %d", rec.Code)
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.Status == pipeline.StatusCompleted || snap.Status == pipeline.StatusFailed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish in time, status %s", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed job, got %s (%v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalDocuments != 2 {
		t.Errorf("expected 2 documents in progress, got %d", snap.Progress.TotalDocuments)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, accepted.ResultURL, nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 result, got %d: %s", rec.Code, rec.Body.String())
	}
	var result report.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if err := report.Validate(result); err != nil {
		t.Errorf("result failed validation: %v", err)
	}
	if result.Metadata.TotalDocuments != 2 {
		t.Errorf("expected 2 documents in result, got %d", result.Metadata.TotalDocuments)
	}
}

func TestStats_Endpoint(t *testing.T) {
	srv := newTestServer(t, false)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/api/stats", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		QueueDepth int                    `json:"queue_depth"`
		Analysis   pipeline.StatsSnapshot `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"/etc/passwd", "passwd"},
		{"../../escape.txt", "escape.txt"},
		{"", "unnamed"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.in); got != c.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
