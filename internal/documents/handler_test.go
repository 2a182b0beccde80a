package documents

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"findoc-backend/internal/shared/auth"
	"findoc-backend/internal/shared/server/middleware"
	"findoc-backend/internal/shared/storage/object/local"
)

var testSecret = []byte("handler-test-secret")

func newTestRouter(t *testing.T) (*gin.Engine, *fakeSummarizer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sum := &fakeSummarizer{reply: `{"summary":"A report.","key_figures":["7k"],"dates":[],"topics":["finance"]}`}
	svc := &Service{
		Blobs:      local.New(t.TempDir()),
		Repo:       NewMemoryRepo(),
		Extractor:  &fakeExtractor{text: "some financial prose"},
		Summarizer: sum,
	}

	r := gin.New()
	group := r.Group("/upload")
	group.Use(middleware.Auth(testSecret))
	(&Handler{Service: svc}).RegisterRoutes(group)
	return r, sum
}

func authedRequest(t *testing.T, method, target string, body *bytes.Buffer, contentType string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("user-1", "u@example.com", testSecret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	return req
}

func pdfUploadBody(t *testing.T, fileName, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, fileName, contentType string) map[string]any {
	t.Helper()
	body, ct := pdfUploadBody(t, fileName, contentType, "%PDF-1.4 test content")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/upload/single", body, ct))
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return resp
}

func TestUploadEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doUpload(t, r, "report.pdf", "application/pdf")
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data envelope: %v", resp)
	}
	fileID, _ := data["fileId"].(string)
	if !strings.HasPrefix(fileID, "pdf_") || !strings.HasSuffix(fileID, "report.pdf") {
		t.Fatalf("unexpected fileId %q", fileID)
	}
	if data["originalName"] != "report.pdf" {
		t.Fatalf("unexpected originalName %v", data["originalName"])
	}
	if size, _ := data["size"].(float64); size <= 0 {
		t.Fatalf("unexpected size %v", data["size"])
	}
}

func TestUploadEndpointRejectsWrongType(t *testing.T) {
	r, _ := newTestRouter(t)

	body, ct := pdfUploadBody(t, "notes.txt", "text/plain", "plain text")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/upload/single", body, ct))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "PDF") {
		t.Fatalf("error body should mention PDF: %s", rec.Body.String())
	}
}

func TestUploadEndpointRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	body, ct := pdfUploadBody(t, "report.pdf", "application/pdf", "x")
	req := httptest.NewRequest(http.MethodPost, "/upload/single", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestListEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	doUpload(t, r, "invoice-june.pdf", "application/pdf")
	doUpload(t, r, "statement.pdf", "application/pdf")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/upload/user-documents?search=invoice", nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		Data    []struct {
			FileID       string `json:"fileId"`
			OriginalName string `json:"originalName"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Data) != 1 {
		t.Fatalf("search matched %d, want 1: %s", resp.Count, rec.Body.String())
	}
	if resp.Data[0].OriginalName != "invoice-june.pdf" {
		t.Fatalf("wrong match: %+v", resp.Data[0])
	}
}

func TestListEndpointRejectsBadDate(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/upload/user-documents?startDate=junk", nil, ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSummarizeEndpointCaches(t *testing.T) {
	r, sum := newTestRouter(t)
	resp := doUpload(t, r, "report.pdf", "application/pdf")
	fileID := resp["data"].(map[string]any)["fileId"].(string)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/upload/summarize/"+fileID, nil, ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("summarize status %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Data Analysis `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Data.Summary != "A report." {
			t.Fatalf("summary %q", body.Data.Summary)
		}
	}
	if got := sum.calls.Load(); got != 1 {
		t.Fatalf("summarizer called %d times across two requests, want 1", got)
	}
}

func TestSummarizeEndpointUnknownFile(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/upload/summarize/pdf_0_missing.pdf", nil, ""))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestFileInfoAndDeleteEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	resp := doUpload(t, r, "report.pdf", "application/pdf")
	fileID := resp["data"].(map[string]any)["fileId"].(string)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/upload/"+fileID, nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("info status %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodDelete, "/upload/"+fileID, nil, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/upload/"+fileID, nil, ""))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("info after delete status %d, want 404", rec.Code)
	}
}
