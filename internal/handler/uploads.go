package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/storage"
)

type UploadsHandler struct {
	proofService *service.ProofService
}

func NewUploadsHandler(proofService *service.ProofService) *UploadsHandler {
	return &UploadsHandler{
		proofService: proofService,
	}
}

// Proof serves a stored proof image, redirecting to a presigned URL when the backend has one
func (h *UploadsHandler) Proof(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}

	if url := h.proofService.URL(r.Context(), key); url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, err := h.proofService.Open(r.Context(), key)
	if errors.Is(err, storage.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open proof", "error", err, "key", key)
		http.Error(w, "Failed to load proof", http.StatusInternalServerError)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", proofContentType(key))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Error("failed to stream proof", "error", err, "key", key)
	}
}

func proofContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	}
	return "application/octet-stream"
}
