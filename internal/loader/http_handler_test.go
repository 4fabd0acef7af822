package loader

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hmalik/txnpipe/internal/domain"
)

func uploadRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to build form: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/ingest", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandlerReturnsSummary(t *testing.T) {
	f := newFixture()
	handler := NewHTTPHandler(f.service)

	data := envelope(
		jsonRow(customerA, txn1, "EUR", "2023-11-21"),
		jsonRow(customerA, txn2, "XXX", "2023-12-05"),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, uploadRequest(t, "transactions.json", data))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var summary domain.Summary
	if err := json.Unmarshal(recorder.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.TotalRows != 2 || summary.PassedRows != 1 || summary.FailedRows != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestHandlerRejectsUnsupportedUpload(t *testing.T) {
	f := newFixture()
	handler := NewHTTPHandler(f.service)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, uploadRequest(t, "transactions.parquet", "data"))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestHandlerRejectsNonPost(t *testing.T) {
	f := newFixture()
	handler := NewHTTPHandler(f.service)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ingest", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}
