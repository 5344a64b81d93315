package handlers

import (
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"fileconverter/dto"
	"fileconverter/metrics"
	"fileconverter/middleware"
)

// Upload handles POST /upload: stage a file under a generated name
// without converting anything. The response path is relative to the
// static /uploads mount.
func (h *ConvertHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		h.handleError(w, r, parseFormMessage(err), err, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.handleError(w, r, "No file uploaded", err, http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.staging.Save(header.Filename, file)
	if err != nil {
		h.handleError(w, r, "Failed to save file", err, http.StatusInternalServerError)
		return
	}

	name := filepath.Base(path)
	metrics.UploadsTotal.Inc()

	middleware.TraceLogger(r.Context(), h.logger).Info("File staged",
		zap.String("filename", header.Filename),
		zap.String("stored_as", name),
	)

	h.respondJSON(w, http.StatusOK, dto.UploadResponse{
		Success:  true,
		Filename: name,
		Path:     "/uploads/" + name,
	})
}
