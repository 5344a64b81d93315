package handlers

import (
	"net/http"
	"time"

	"fileconverter/dto"
)

// Health handles GET /api/health. Liveness only: a 200 means the
// process serves requests, it says nothing about the remote provider.
func (h *ConvertHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Message:   "Server is running",
		API:       h.providerAPI,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
