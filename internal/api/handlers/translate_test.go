package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vtt-relay/backend/internal/subtitle/translate"
)

const sampleVTT = "WEBVTT\n\n" +
	"1\n00:00:00.000 --> 00:00:02.000\nHello world\n\n" +
	"2\n00:00:02.000 --> 00:00:04.000\nGoodbye\n"

// echoEngine returns every item prefixed with the target language. Languages
// in fail return an upstream error instead.
type echoEngine struct {
	fail map[string]bool
}

func (e *echoEngine) Name() string { return "echo" }

func (e *echoEngine) TranslateBatch(ctx context.Context, lang string, items []translate.Item, opts translate.Options) (map[int]string, error) {
	if e.fail[lang] {
		return nil, &translate.UpstreamError{StatusCode: 500, Detail: "unavailable"}
	}
	out := make(map[int]string, len(items))
	for _, item := range items {
		out[item.ID] = "[" + lang + "] " + item.Text
	}
	return out, nil
}

func newTestHandler(t *testing.T, engine translate.Engine) *TranslateHandler {
	t.Helper()
	dir := t.TempDir()
	svc := translate.NewService(engine, filepath.Join(dir, "uploads"), filepath.Join(dir, "outputs"), translate.Options{}, nil)
	return NewTranslateHandler(svc)
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

func errorMessage(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, body.String())
	}
	return resp.Error
}

func TestTranslate_ReturnsArchive(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &echoEngine{})
	body, contentType := multipartUpload(t, "movie.vtt", sampleVTT, map[string]string{
		"langs": "de-DE ja-JP",
	})

	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/zip" {
		t.Errorf("expected application/zip, got %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "translations.zip") {
		t.Errorf("unexpected disposition: %q", got)
	}
	if got := rec.Header().Get("X-Translation-Warnings"); got != "" {
		t.Errorf("expected no warnings, got %q", got)
	}

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a valid zip: %v", err)
	}
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	if len(names) != 2 || names[0] != "movie.de-DE.vtt" || names[1] != "movie.ja-JP.vtt" {
		t.Fatalf("unexpected archive entries: %v", names)
	}

	rc, err := reader.File[0].Open()
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[de-DE] Hello world") {
		t.Errorf("entry not translated: %q", string(data))
	}
}

func TestTranslate_PartialFailureWarns(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &echoEngine{fail: map[string]bool{"de-DE": true}})
	body, contentType := multipartUpload(t, "movie.vtt", sampleVTT, map[string]string{
		"langs": "de-DE ja-JP",
	})

	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	warnings := rec.Header().Get("X-Translation-Warnings")
	if !strings.Contains(warnings, "de-DE") {
		t.Errorf("expected de-DE warning, got %q", warnings)
	}

	reader, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a valid zip: %v", err)
	}
	if len(reader.File) != 1 || reader.File[0].Name != "movie.ja-JP.vtt" {
		t.Fatalf("expected only the ja-JP entry, got %d entries", len(reader.File))
	}
}

func TestTranslate_AllLanguagesFailed(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, &echoEngine{fail: map[string]bool{"de-DE": true}})
	body, contentType := multipartUpload(t, "movie.vtt", sampleVTT, map[string]string{
		"langs": "de-DE",
	})

	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec.Body); !strings.Contains(msg, "all languages") {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestTranslate_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		filename   string
		content    string
		fields     map[string]string
		wantStatus int
	}{
		{
			name:       "unsupported extension",
			filename:   "movie.txt",
			content:    sampleVTT,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid wrap",
			filename:   "movie.vtt",
			content:    sampleVTT,
			fields:     map[string]string{"wrap": "abc"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid batch size",
			filename:   "movie.vtt",
			content:    sampleVTT,
			fields:     map[string]string{"batch_size": "0"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing webvtt signature",
			filename:   "movie.vtt",
			content:    "just some text",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no cues",
			filename:   "movie.vtt",
			content:    "WEBVTT\n",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newTestHandler(t, &echoEngine{})
			body, contentType := multipartUpload(t, tt.filename, tt.content, tt.fields)

			req := httptest.NewRequest("POST", "/api/translate", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			handler.Translate(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTranslate_MissingFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("langs", "de-DE")
	writer.Close()

	handler := newTestHandler(t, &echoEngine{})
	req := httptest.NewRequest("POST", "/api/translate", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestTranslate_ConfigurationError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	engine := translate.NewOpenAIEngine("", "", nil) // no API key configured
	svc := translate.NewService(engine, filepath.Join(dir, "uploads"), filepath.Join(dir, "outputs"), translate.Options{}, nil)
	handler := NewTranslateHandler(svc)

	body, contentType := multipartUpload(t, "movie.vtt", sampleVTT, map[string]string{"langs": "de-DE"})
	req := httptest.NewRequest("POST", "/api/translate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Translate(rec, req)

	// the missing key surfaces per language, so the request fails as a whole
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec.Body); !strings.Contains(msg, "not configured") {
		t.Errorf("unexpected error message: %q", msg)
	}
}
