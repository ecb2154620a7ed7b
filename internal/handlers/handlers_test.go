package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xuri/excelize/v2"

	"ccrecon/internal/filestore"
	"ccrecon/internal/handlers"
	"ccrecon/internal/report"
)

const cardCSV = "01/05/2025,120.00,AUTOZONE #1234 HOUSTON TX,PARTS\n01/06/2025,45.50,CHEVRON 00123 HOUSTON TX,FUEL\n"
const partsCSV = "Date,Amount\n01/06/2025,120.00\n"

func newMux(t *testing.T) *http.ServeMux {
	t.Helper()
	files, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}
	h := handlers.New(files)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reconcile", h.Reconcile)
	mux.HandleFunc("GET /reports/{id}", h.Report)
	mux.HandleFunc("GET /api/version", h.APIVersion)
	return mux
}

func multipartBody(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, content := range files {
		fw, err := w.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		io.WriteString(fw, content)
	}
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestReconcile_RoundTrip(t *testing.T) {
	mux := newMux(t)

	body, contentType := multipartBody(t,
		map[string]string{"card1": cardCSV, "parts": partsCSV},
		map[string]string{"card1_last4": "0078"},
	)
	req := httptest.NewRequest(http.MethodPost, "/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != report.MIMEType {
		t.Errorf("content type got=%q", got)
	}
	id := rec.Header().Get("X-Report-ID")
	if id == "" {
		t.Fatal("missing X-Report-ID header")
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); len(got) != 5 || got[0] != report.SheetAll {
		t.Errorf("sheets got=%v", got)
	}
	// The 01/05 row matches the 01/06 parts record one day out.
	if v, _ := f.GetCellValue(report.SheetAll, "H2"); v != "TRUE" {
		t.Errorf("matched cell got=%q want TRUE", v)
	}

	// Stored copy comes back byte-identical.
	req = httptest.NewRequest(http.MethodGet, "/reports/"+id, nil)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("report fetch status got=%d", rec2.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), rec2.Body.Bytes()) {
		t.Error("stored report differs from response body")
	}
}

func TestReconcile_MissingLast4(t *testing.T) {
	mux := newMux(t)
	body, contentType := multipartBody(t, map[string]string{"card1": cardCSV}, nil)
	req := httptest.NewRequest(http.MethodPost, "/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status got=%d want=400", rec.Code)
	}
}

func TestReconcile_AllFilesRejected(t *testing.T) {
	mux := newMux(t)
	body, contentType := multipartBody(t,
		map[string]string{"card1": "01/05/2025,10.00\n"},
		map[string]string{"card1_last4": "0078"},
	)
	req := httptest.NewRequest(http.MethodPost, "/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status got=%d want=422 body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Files []struct {
			Account string `json:"account"`
			Error   string `json:"error"`
		} `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(out.Files) != 1 || out.Files[0].Account != "0078" {
		t.Errorf("per-file errors got=%+v", out.Files)
	}
}

func TestReport_NotFound(t *testing.T) {
	mux := newMux(t)
	req := httptest.NewRequest(http.MethodGet, "/reports/ffffffffffffffff", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status got=%d want=404", rec.Code)
	}
}

func TestAPIVersion(t *testing.T) {
	mux := newMux(t)
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d", rec.Code)
	}
	var v map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v["version"] == "" {
		t.Error("missing version field")
	}
}
