package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vtt-relay/backend/internal/archive"
	"github.com/vtt-relay/backend/internal/storage"
	"github.com/vtt-relay/backend/internal/subtitle/translate"
	"github.com/vtt-relay/backend/internal/subtitle/vtt"
)

// maxUploadSize bounds the multipart upload; subtitle files are small text.
const maxUploadSize = 10 << 20 // 10 MiB

type TranslateHandler struct {
	service *translate.Service
}

func NewTranslateHandler(service *translate.Service) *TranslateHandler {
	return &TranslateHandler{service: service}
}

// Translate handles the synchronous endpoint: accept a .vtt (or .srt) upload,
// translate it into every requested language, and respond with a ZIP archive
// of the per-language files.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !isSubtitleUpload(header.Filename) {
		jsonError(w, "only .vtt and .srt files are supported", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	opts, err := parseOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files, results, err := h.service.TranslateFile(r.Context(), header.Filename, content, opts, nil)
	if err != nil {
		writeTranslateError(w, err)
		return
	}
	if len(files) == 0 {
		// every language failed; surface the first failure's diagnostic
		jsonError(w, "translation failed for all languages: "+firstError(results), http.StatusBadGateway)
		return
	}

	data, err := archive.Build(files)
	if err != nil {
		jsonError(w, "failed to build archive: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if warnings := collectWarnings(results); warnings != "" {
		w.Header().Set("X-Translation-Warnings", warnings)
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="translations.zip"`)
	w.Write(data)
}

// parseOptions reads the optional form fields shared by the sync and async
// endpoints: langs (space-separated), model, wrap, batch_size, preset_id.
func parseOptions(r *http.Request) (translate.Options, error) {
	var opts translate.Options

	if v := r.FormValue("langs"); v != "" {
		opts.Langs = strings.Fields(v)
	}
	opts.Model = r.FormValue("model")

	if v := r.FormValue("wrap"); v != "" {
		wrap, err := strconv.Atoi(v)
		if err != nil || wrap < 0 {
			return opts, fmt.Errorf("invalid wrap value: %s", v)
		}
		opts.Wrap = wrap
	}
	if v := r.FormValue("batch_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return opts, fmt.Errorf("invalid batch_size value: %s", v)
		}
		opts.BatchSize = size
	}

	return opts, nil
}

func isSubtitleUpload(name string) bool {
	return storage.IsSubtitleFile(filepath.Base(name))
}

// writeTranslateError maps pipeline errors to HTTP statuses so the caller can
// tell which stage failed.
func writeTranslateError(w http.ResponseWriter, err error) {
	var formatErr *vtt.FormatError
	if errors.As(err, &formatErr) {
		jsonError(w, err.Error()+"; expected a WebVTT file starting with a WEBVTT signature line", http.StatusUnprocessableEntity)
		return
	}
	var configErr *translate.ConfigurationError
	if errors.As(err, &configErr) {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonError(w, "translation failed: "+err.Error(), http.StatusBadGateway)
}

func firstError(results []translate.Result) string {
	for _, res := range results {
		if res.Err != nil {
			return res.Err.Error()
		}
	}
	return "unknown error"
}

// collectWarnings summarizes degraded or failed languages for the response header.
func collectWarnings(results []translate.Result) string {
	var parts []string
	for _, res := range results {
		if res.Err != nil {
			parts = append(parts, fmt.Sprintf("%s: failed (%v)", res.Lang, res.Err))
		} else if res.Fallback > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d cues kept source text", res.Lang, res.Fallback))
		}
	}
	// header values must be single-line
	return strings.ReplaceAll(strings.Join(parts, "; "), "\n", " ")
}
