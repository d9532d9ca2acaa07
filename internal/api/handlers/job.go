package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vtt-relay/backend/internal/job"
	"github.com/vtt-relay/backend/internal/subtitle/translate"
)

type JobHandler struct {
	queue   *job.JobQueue
	service *translate.Service
}

func NewJobHandler(queue *job.JobQueue, service *translate.Service) *JobHandler {
	return &JobHandler{queue: queue, service: service}
}

// SubmitTranslate stores the uploaded subtitle file and enqueues a translation
// job for it. The response carries the job ID for polling.
func (h *JobHandler) SubmitTranslate(w http.ResponseWriter, r *http.Request) {
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

	opts, err := parseOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var presetID int64
	if v := r.FormValue("preset_id"); v != "" {
		presetID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, "invalid preset_id value: "+v, http.StatusBadRequest)
			return
		}
	}

	// store the upload under a fresh name; the original name survives in params
	storedName := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.service.UploadsPath(), storedName))
	if err != nil {
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	dst.Close()

	params := job.TranslateParams{
		OriginalName: header.Filename,
		Langs:        opts.Langs,
		Model:        opts.Model,
		Wrap:         opts.Wrap,
		BatchSize:    opts.BatchSize,
		PresetID:     presetID,
	}

	j, err := h.queue.Enqueue(job.JobTranslate, storedName, params)
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}

// ListJobs returns all jobs
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.queue.ListJobs()
	if err != nil {
		jsonError(w, "failed to list jobs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if jobs == nil {
		jobs = []*job.Job{}
	}
	jsonResponse(w, jobs, http.StatusOK)
}

// GetJob returns a single job by ID
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing job ID", http.StatusBadRequest)
		return
	}

	j, err := h.queue.GetJob(id)
	if err != nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	jsonResponse(w, j, http.StatusOK)
}

// Download serves the finished job's ZIP archive.
func (h *JobHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	j, err := h.queue.GetJob(id)
	if err != nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if j.Status != job.StatusCompleted {
		jsonError(w, "job is not completed", http.StatusConflict)
		return
	}

	var result job.TranslateResult
	if err := json.Unmarshal(j.Result, &result); err != nil || result.ArchivePath == "" {
		jsonError(w, "job has no archive", http.StatusNotFound)
		return
	}

	path := filepath.Join(h.service.OutputsPath(), filepath.Base(result.ArchivePath))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="translations.zip"`)
	http.ServeFile(w, r, path)
}

// CancelJob cancels a pending or running job
func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing job ID", http.StatusBadRequest)
		return
	}

	if err := h.queue.CancelJob(id); err != nil {
		jsonError(w, "failed to cancel job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RetryJob re-queues a failed or cancelled job
func (h *JobHandler) RetryJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing job ID", http.StatusBadRequest)
		return
	}

	if err := h.queue.RetryJob(id); err != nil {
		jsonError(w, "failed to retry job: "+err.Error(), http.StatusBadRequest)
		return
	}

	jsonResponse(w, map[string]string{"status": "retrying"}, http.StatusOK)
}
