package handler

import (
	"net/http"
	"time"

	"github.com/adimehta/aiportal/internal/transport/http/middleware"
)

// ListModels handles GET /models, returning the upstream model catalog.
func (h *Repo) ListModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())

	resp, err := h.Provider.ListModels(r.Context())
	if err != nil {
		status := writeUpstreamError(w, err)
		go h.logRequest(requestID, EndpointModels, "", nil, status, err.Error(), start)
		return
	}

	writeJSON(w, http.StatusOK, resp)
	go h.logRequest(requestID, EndpointModels, "", nil, http.StatusOK, "", start)
}
