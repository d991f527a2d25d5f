package handler

import (
	"net/http"

	"github.com/adimehta/aiportal/internal/types"
	"github.com/adimehta/aiportal/internal/version"
)

// Health handles GET /health. Always 200; degraded collaborators are
// reported in the body rather than the status code.
func (h *Repo) Health(w http.ResponseWriter, r *http.Request) {
	openaiStatus := "unavailable"
	if h.Provider != nil && h.Provider.Available() {
		openaiStatus = "available"
	}
	authStatus := "not configured"
	if h.Gate.Configured() {
		authStatus = "configured"
	}

	var warnings []string
	if h.Config != nil {
		warnings = h.Config.Warnings()
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:         "healthy",
		Message:        "Service is operational",
		OpenAIClient:   openaiStatus,
		Authentication: authStatus,
		ServiceVersion: version.Version,
		Warnings:       warnings,
	})
}
