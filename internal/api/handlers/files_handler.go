package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"omniquery/internal/config"
	"omniquery/internal/core"
	"omniquery/internal/core/ingest"
)

// uploadDir is where incoming files are persisted before processing.
// The stored file_path points here so chunks remain traceable.
const uploadDir = "uploads"

type FilesHandler struct {
	store     core.Store
	processor *ingest.Processor
	cfg       *config.Config
}

func NewFilesHandler(store core.Store, processor *ingest.Processor, cfg *config.Config) *FilesHandler {
	return &FilesHandler{store: store, processor: processor, cfg: cfg}
}

// Upload receives a multipart file, saves it under uploads/, and runs the
// ingest pipeline synchronously.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid file upload: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	cleanName := filepath.Base(header.Filename)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		http.Error(w, fmt.Sprintf("prepare upload dir: %v", err), http.StatusInternalServerError)
		return
	}

	destPath := filepath.Join(uploadDir, uuid.NewString()+"_"+cleanName)
	dest, err := os.Create(destPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		dest.Close()
		os.Remove(destPath)
		http.Error(w, fmt.Sprintf("save upload: %v", err), http.StatusInternalServerError)
		return
	}
	dest.Close()

	result, err := h.processor.ProcessFile(r.Context(), destPath)
	if err != nil {
		log.Printf("ingest failed for %s: %v", cleanName, err)
		http.Error(w, fmt.Sprintf("processing failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AddYouTube ingests a YouTube URL given as JSON {"url": "..."}.
func (h *FilesHandler) AddYouTube(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "expected JSON body with a url field", http.StatusBadRequest)
		return
	}

	result, err := h.processor.ProcessYouTube(r.Context(), req.URL)
	if err != nil {
		log.Printf("youtube ingest failed for %s: %v", req.URL, err)
		http.Error(w, fmt.Sprintf("processing failed: %v", err), http.StatusInternalServerError)
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// List returns all ingested files, newest first.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.ListFiles(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// Original streams back the archived original upload for one file.
func (h *FilesHandler) Original(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	file, data, err := h.processor.FetchOriginal(r.Context(), fileID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if _, err := w.Write(data); err != nil {
		log.Printf("write original %d: %v", fileID, err)
	}
}

// ClearAll wipes files, chunks, query history, and archived originals.
func (h *FilesHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.processor.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "knowledge base cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
