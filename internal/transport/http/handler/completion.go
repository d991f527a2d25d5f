package handler

import (
	"net/http"
	"time"

	"github.com/adimehta/aiportal/internal/transport/http/middleware"
	"github.com/adimehta/aiportal/internal/types"
)

// Completion handles POST /completion, forwarding to the legacy text
// completion API.
func (h *Repo) Completion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())

	var req types.CompletionRequest
	if err := decodeJSON(r, &req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("Invalid request body"))
		return
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.Provider.TextCompletion(r.Context(), &req)
	if err != nil {
		status := writeUpstreamError(w, err)
		go h.logRequest(requestID, EndpointCompletion, req.Model, nil, status, err.Error(), start)
		return
	}

	writeJSON(w, http.StatusOK, resp)

	usage := resp.Usage
	if usage == nil {
		usage = h.estimatePromptTokens(nil, req.Prompt, req.Model)
	}
	go h.logRequest(requestID, EndpointCompletion, resp.Model, usage, http.StatusOK, "", start)
}
