package handler

import (
	"net/http"
	"time"

	"github.com/adimehta/aiportal/internal/transport/http/middleware"
	"github.com/adimehta/aiportal/internal/types"
)

// Chat handles POST /chat, forwarding to the upstream chat completion API.
func (h *Repo) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := middleware.GetRequestID(r.Context())

	var req types.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("Invalid request body"))
		return
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.Provider.ChatCompletion(r.Context(), &req)
	if err != nil {
		status := writeUpstreamError(w, err)
		go h.logRequest(requestID, EndpointChat, req.Model, nil, status, err.Error(), start)
		return
	}

	writeJSON(w, http.StatusOK, resp)

	usage := resp.Usage
	if usage == nil {
		usage = h.estimatePromptTokens(req.Messages, "", req.Model)
	}
	go h.logRequest(requestID, EndpointChat, resp.Model, usage, http.StatusOK, "", start)
}
