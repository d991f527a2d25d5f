package handler

import (
	"net/http"
	"time"

	"github.com/adimehta/aiportal/internal/transport/http/middleware"
	"github.com/adimehta/aiportal/internal/types"
)

// GenerateImage handles POST /images/generate.
func (h *Repo) GenerateImage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())

	var req types.ImageRequest
	if err := decodeJSON(r, &req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("Invalid request body"))
		return
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.Provider.GenerateImage(r.Context(), &req)
	if err != nil {
		status := writeUpstreamError(w, err)
		go h.logRequest(requestID, EndpointImages, types.DefaultImageModel, nil, status, err.Error(), start)
		return
	}

	writeJSON(w, http.StatusOK, resp)
	go h.logRequest(requestID, EndpointImages, types.DefaultImageModel, nil, http.StatusOK, "", start)
}
