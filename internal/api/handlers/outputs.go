package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/vtt-relay/backend/internal/storage"
)

// OutputsHandler exposes the directory of finished translation archives.
type OutputsHandler struct {
	outputsPath string
}

func NewOutputsHandler(outputsPath string) *OutputsHandler {
	return &OutputsHandler{outputsPath: outputsPath}
}

// List returns the archives in the outputs directory
func (h *OutputsHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := storage.ListDirectory(h.outputsPath, "")
	if err != nil {
		jsonError(w, "failed to list outputs", http.StatusInternalServerError)
		return
	}

	var archives []*storage.FileEntry
	for _, entry := range entries {
		if !entry.IsDir && storage.IsArchiveFile(entry.Name) {
			archives = append(archives, entry)
		}
	}
	if archives == nil {
		archives = []*storage.FileEntry{}
	}
	jsonResponse(w, archives, http.StatusOK)
}

// Search finds outputs whose name contains the query string
func (h *OutputsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "query parameter q required", http.StatusBadRequest)
		return
	}

	results, err := storage.Search(h.outputsPath, query, 100)
	if err != nil {
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []*storage.FileEntry{}
	}
	jsonResponse(w, results, http.StatusOK)
}

// Download serves one archive by name
func (h *OutputsHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "name"))
	if !storage.IsArchiveFile(name) {
		jsonError(w, "not an archive", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	http.ServeFile(w, r, filepath.Join(h.outputsPath, name))
}
