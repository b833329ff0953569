package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/riii-services/backend/internal/application/services"
)

const maxUploadBytes = 10 << 20

// UploadService defines the upload operation used by the handler.
type UploadService interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (*services.Upload, error)
}

// UploadHandler handles /api/upload
type UploadHandler struct {
	service UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /api/upload with multipart fields file and folder
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Missing or invalid file")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing or invalid file")
		return
	}
	defer file.Close()

	upload, err := h.service.Upload(
		r.Context(),
		r.FormValue("folder"),
		header.Filename,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, upload)
}
