// Package handler implements the HTTP handlers of the service API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adimehta/aiportal/internal/auth"
	"github.com/adimehta/aiportal/internal/config"
	"github.com/adimehta/aiportal/internal/provider"
	"github.com/adimehta/aiportal/internal/storage"
	"github.com/adimehta/aiportal/internal/tokenizer"
	"github.com/adimehta/aiportal/internal/types"
)

// Endpoint names used in request logs and usage aggregates.
const (
	EndpointChat       = "chat"
	EndpointCompletion = "completion"
	EndpointImages     = "images"
	EndpointEmbeddings = "embeddings"
	EndpointModels     = "models"
)

// Repo holds the dependencies for HTTP handlers
type Repo struct {
	Gate     *auth.Gate
	Provider provider.Service
	Storage  storage.Storage
	Counter  tokenizer.Counter
	Config   *config.Config
}

// NewRepo creates a new instance of the handler repository
func NewRepo(gate *auth.Gate, prov provider.Service, store storage.Storage, counter tokenizer.Counter, cfg *config.Config) *Repo {
	return &Repo{
		Gate:     gate,
		Provider: prov,
		Storage:  store,
		Counter:  counter,
		Config:   cfg,
	}
}

// decodeJSON decodes a request body, closing it.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// NotFound answers unmatched paths with the JSON error envelope instead of
// the plain-text default.
func (h *Repo) NotFound(w http.ResponseWriter, r *http.Request) {
	types.WriteError(w, http.StatusNotFound, types.ErrNotFound("Not found"))
}

// writeValidationError writes a 400 with the offending field as param.
func writeValidationError(w http.ResponseWriter, err error) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		types.WriteError(w, http.StatusBadRequest,
			types.NewAPIErrorWithParam(verr.Message, types.ErrorTypeInvalidRequest, verr.Field))
		return
	}
	types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest(err.Error()))
}

// writeUpstreamError maps provider failures to transport responses.
// Returns the status code written, for request logging.
func writeUpstreamError(w http.ResponseWriter, err error) int {
	if errors.Is(err, provider.ErrUnavailable) {
		types.WriteError(w, http.StatusServiceUnavailable,
			types.ErrServiceUnavailable("OpenAI client not available. Please configure OPENAI_API_KEY."))
		return http.StatusServiceUnavailable
	}
	types.WriteError(w, http.StatusInternalServerError, types.ErrServer(err.Error()))
	return http.StatusInternalServerError
}

// logRequest records a passthrough request and updates the daily aggregate.
// Runs asynchronously from handlers; storage errors are dropped.
func (h *Repo) logRequest(requestID, endpoint, model string, usage *types.Usage, statusCode int, errMessage string, startTime time.Time) {
	if h.Storage == nil {
		return
	}

	var prompt, completion, total int
	if usage != nil {
		prompt = usage.PromptTokens
		completion = usage.CompletionTokens
		total = usage.TotalTokens
	}
	if total == 0 {
		total = prompt + completion
	}

	entry := &storage.RequestLog{
		ID:               uuid.New().String(),
		RequestID:        requestID,
		Endpoint:         endpoint,
		Model:            model,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
		StatusCode:       statusCode,
		ErrorMessage:     errMessage,
		DurationMs:       time.Since(startTime).Milliseconds(),
		CreatedAt:        time.Now(),
	}
	_ = h.Storage.LogRequest(entry)

	errorCount := 0
	if statusCode >= 400 {
		errorCount = 1
	}
	_ = h.Storage.UpdateDailyUsage(&storage.DailyUsage{
		Date:             time.Now().Format("2006-01-02"),
		Endpoint:         endpoint,
		Model:            model,
		RequestCount:     1,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
		ErrorCount:       errorCount,
	})
}

// estimatePromptTokens falls back to tiktoken when the upstream response
// carried no usage block.
func (h *Repo) estimatePromptTokens(messages []types.Message, text, model string) *types.Usage {
	if h.Counter == nil {
		return nil
	}

	var tokens int
	var err error
	if len(messages) > 0 {
		tokens, err = h.Counter.CountMessages(messages, model)
	} else {
		tokens, err = h.Counter.CountText(text, model)
	}
	if err != nil {
		return nil
	}
	return &types.Usage{PromptTokens: tokens, TotalTokens: tokens}
}
