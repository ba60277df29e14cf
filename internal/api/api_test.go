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
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/sustainparse/internal/config"
	"github.com/dgallion1/sustainparse/internal/outline"
	"github.com/dgallion1/sustainparse/internal/pipeline"
	"github.com/dgallion1/sustainparse/internal/store"
)

func testServer(t *testing.T, apiKey string) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "parse.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Load()
	cfg.APIKey = apiKey
	cfg.MaxQueueSize = 4
	cfg.JobTTL = time.Hour

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, st, log)
	return NewServer(orch, log, cfg), st
}

func seedDocument(t *testing.T, st *store.Store) {
	t.Helper()
	child := &outline.Section{
		ID: "s0002", Title: "Targets", Level: 2, StartPage: 3, EndPage: 5,
		Path: "Climate" + outline.PathSeparator + "Targets", Text: "net zero by 2040",
	}
	top := &outline.Section{
		ID: "s0001", Title: "Climate", Level: 1, StartPage: 1, EndPage: 5,
		Path: "Climate", Text: "scope 1 overview",
		Children: []*outline.Section{child},
	}
	root := &outline.Section{Title: "Report", Level: 0, StartPage: 1, EndPage: 5,
		Children: []*outline.Section{top}}
	res := &outline.ParseResult{
		Strategy:  outline.StrategyOutline,
		PageCount: 5,
		Root:      root,
		Sections:  []*outline.Section{top, child},
	}
	if err := st.SaveResult(context.Background(), "doc1", "report.pdf", res); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := testServer(t, "secret")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("rejection content type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("rejection body not a json error: %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid key, got %d", rec.Code)
	}
}

func TestListDocuments_Empty(t *testing.T) {
	srv, _ := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Documents []store.DocumentMeta `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Documents) != 0 {
		t.Errorf("expected no documents, got %d", len(body.Documents))
	}
}

func TestDocumentTree(t *testing.T) {
	srv, st := testServer(t, "")
	seedDocument(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/doc1/tree", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var tree struct {
		Title    string            `json:"title"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tree.Title != "Report" || len(tree.Children) != 1 {
		t.Errorf("unexpected tree: %+v", tree)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/nope/tree", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown document, got %d", rec.Code)
	}
}

func TestDocumentSections_PathFilter(t *testing.T) {
	srv, st := testServer(t, "")
	seedDocument(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/documents/doc1/sections?path=Climate+%3E+Targets", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Count    int              `json:"count"`
		Sections []outline.Record `json:"sections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Sections[0].ID != "s0002" {
		t.Errorf("unexpected sections: %+v", body)
	}
}

func TestDocumentAnalysis(t *testing.T) {
	srv, st := testServer(t, "")
	seedDocument(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/doc1/analysis", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Sections []json.RawMessage `json:"sections"`
		Targets  []struct {
			Year string `json:"year"`
		} `json:"targets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.Sections) != 2 {
		t.Errorf("expected 2 section stats, got %d", len(report.Sections))
	}
	if len(report.Targets) != 1 || report.Targets[0].Year != "2040" {
		t.Errorf("unexpected targets: %+v", report.Targets)
	}
}

func TestDeleteDocument(t *testing.T) {
	srv, st := testServer(t, "")
	seedDocument(t, st)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/documents/doc1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/documents/doc1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on double delete, got %d", rec.Code)
	}
}

func TestParse_RejectsNonPDF(t *testing.T) {
	srv, _ := testServer(t, "")

	body, contentType := multipartFile(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-pdf upload, got %d", rec.Code)
	}
}

func TestParse_QueuesJob(t *testing.T) {
	srv, _ := testServer(t, "")

	body, contentType := multipartFile(t, "report.pdf", []byte("%PDF-1.4 stub"))
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID  string `json:"job_id"`
		DocID  string `json:"doc_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" || resp.Status != string(pipeline.StatusQueued) {
		t.Fatalf("unexpected response: %+v", resp)
	}

	// Workers are not running, so the job stays queued and is visible.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/parse/"+resp.JobID+"/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
}

func multipartFile(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestParseStatus_Unknown(t *testing.T) {
	srv, _ := testServer(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/parse/unknown/status", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown job, got %d", rec.Code)
	}
}
