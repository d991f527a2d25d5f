package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adimehta/aiportal/internal/auth"
	"github.com/adimehta/aiportal/internal/provider"
	"github.com/adimehta/aiportal/internal/storage"
	"github.com/adimehta/aiportal/internal/types"
)

// fakeService implements provider.Service with canned responses.
type fakeService struct {
	available bool
	err       error

	chatResp       *types.ChatResponse
	completionResp *types.CompletionResponse
	imageResp      *types.ImageResponse
	embeddingResp  *types.EmbeddingResponse
	modelsResp     *types.ModelsResponse
}

func (f *fakeService) Available() bool { return f.available }

func (f *fakeService) ChatCompletion(_ context.Context, _ *types.ChatRequest) (*types.ChatResponse, error) {
	return f.chatResp, f.err
}

func (f *fakeService) TextCompletion(_ context.Context, _ *types.CompletionRequest) (*types.CompletionResponse, error) {
	return f.completionResp, f.err
}

func (f *fakeService) GenerateImage(_ context.Context, _ *types.ImageRequest) (*types.ImageResponse, error) {
	return f.imageResp, f.err
}

func (f *fakeService) CreateEmbeddings(_ context.Context, _ *types.EmbeddingRequest) (*types.EmbeddingResponse, error) {
	return f.embeddingResp, f.err
}

func (f *fakeService) ListModels(_ context.Context) (*types.ModelsResponse, error) {
	return f.modelsResp, f.err
}

func newTestRepo(t *testing.T, secret string, svc provider.Service) *Repo {
	t.Helper()
	gate, err := auth.NewGate(secret)
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	return NewRepo(gate, svc, nil, nil, nil)
}

func doJSON(t *testing.T, handlerFunc http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handlerFunc(w, req)
	return w
}

func decodeErrorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var apiErr types.APIError
	if err := json.NewDecoder(w.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return apiErr.Error.Type
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		body       string
		wantStatus int
	}{
		{"valid key", "secret123", `{"access_key":"secret123"}`, http.StatusOK},
		{"wrong key", "secret123", `{"access_key":"nope"}`, http.StatusForbidden},
		{"empty key", "secret123", `{"access_key":""}`, http.StatusBadRequest},
		{"malformed body", "secret123", `{not json`, http.StatusBadRequest},
		{"unconfigured", "", `{"access_key":"anything"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRepo(t, tt.secret, &fakeService{})
			w := doJSON(t, h.Login, http.MethodPost, "/auth", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestLoginEchoesToken(t *testing.T) {
	h := newTestRepo(t, "secret123", &fakeService{})
	w := doJSON(t, h.Login, http.MethodPost, "/auth", `{"access_key":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp types.AuthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Authenticated {
		t.Error("authenticated = false, want true")
	}
	if resp.Token != "secret123" {
		t.Errorf("token = %q, want the submitted key echoed back", resp.Token)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		available bool
		wantAuth  string
		wantAI    string
	}{
		{"all configured", "secret123", true, "configured", "available"},
		{"nothing configured", "", false, "not configured", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRepo(t, tt.secret, &fakeService{available: tt.available})
			w := doJSON(t, h.Health, http.MethodGet, "/health", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp types.HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Status != "healthy" {
				t.Errorf("status = %q, want healthy", resp.Status)
			}
			if resp.Authentication != tt.wantAuth {
				t.Errorf("authentication = %q, want %q", resp.Authentication, tt.wantAuth)
			}
			if resp.OpenAIClient != tt.wantAI {
				t.Errorf("openai_client = %q, want %q", resp.OpenAIClient, tt.wantAI)
			}
		})
	}
}

func TestChat(t *testing.T) {
	okResp := &types.ChatResponse{
		Message: "Hello there",
		Model:   "gpt-3.5-turbo",
		Usage:   &types.Usage{PromptTokens: 5, CompletionTokens: 3, TotalTokens: 8},
		ID:      "chatcmpl-1",
	}

	tests := []struct {
		name       string
		svc        *fakeService
		body       string
		wantStatus int
		wantType   string
	}{
		{
			"success",
			&fakeService{available: true, chatResp: okResp},
			`{"messages":[{"role":"user","content":"hi"}]}`,
			http.StatusOK, "",
		},
		{
			"malformed body",
			&fakeService{available: true, chatResp: okResp},
			`{not json`,
			http.StatusBadRequest, types.ErrorTypeInvalidRequest,
		},
		{
			"missing messages",
			&fakeService{available: true, chatResp: okResp},
			`{"model":"gpt-4"}`,
			http.StatusBadRequest, types.ErrorTypeInvalidRequest,
		},
		{
			"temperature out of range",
			&fakeService{available: true, chatResp: okResp},
			`{"messages":[{"role":"user","content":"hi"}],"temperature":3.5}`,
			http.StatusBadRequest, types.ErrorTypeInvalidRequest,
		},
		{
			"upstream unavailable",
			&fakeService{err: provider.ErrUnavailable},
			`{"messages":[{"role":"user","content":"hi"}]}`,
			http.StatusServiceUnavailable, types.ErrorTypeServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRepo(t, "secret123", tt.svc)
			w := doJSON(t, h.Chat, http.MethodPost, "/chat", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantType != "" {
				if got := decodeErrorType(t, w); got != tt.wantType {
					t.Errorf("error type = %q, want %q", got, tt.wantType)
				}
			}
		})
	}
}

func TestChatResponseShape(t *testing.T) {
	h := newTestRepo(t, "secret123", &fakeService{
		available: true,
		chatResp: &types.ChatResponse{
			Message: "Hello there",
			Model:   "gpt-4",
			Usage:   &types.Usage{PromptTokens: 5, CompletionTokens: 3, TotalTokens: 8},
			ID:      "chatcmpl-1",
		},
	})

	w := doJSON(t, h.Chat, http.MethodPost, "/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp types.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Message != "Hello there" || resp.Model != "gpt-4" || resp.ID != "chatcmpl-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 8 {
		t.Errorf("usage not carried through: %+v", resp.Usage)
	}
}

func TestCompletion(t *testing.T) {
	okResp := &types.CompletionResponse{Text: "done", Model: "gpt-3.5-turbo-instruct", ID: "cmpl-1"}

	tests := []struct {
		name       string
		svc        *fakeService
		body       string
		wantStatus int
	}{
		{"success", &fakeService{available: true, completionResp: okResp}, `{"prompt":"say hi"}`, http.StatusOK},
		{"missing prompt", &fakeService{available: true, completionResp: okResp}, `{}`, http.StatusBadRequest},
		{"zero max_tokens", &fakeService{available: true, completionResp: okResp}, `{"prompt":"hi","max_tokens":0}`, http.StatusBadRequest},
		{"upstream unavailable", &fakeService{err: provider.ErrUnavailable}, `{"prompt":"hi"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRepo(t, "secret123", tt.svc)
			w := doJSON(t, h.Completion, http.MethodPost, "/completion", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestGenerateImage(t *testing.T) {
	okResp := &types.ImageResponse{URL: "https://img.example/1.png", Prompt: "a cat", Size: "1024x1024", Quality: "standard"}

	tests := []struct {
		name       string
		svc        *fakeService
		body       string
		wantStatus int
	}{
		{"success", &fakeService{available: true, imageResp: okResp}, `{"prompt":"a cat"}`, http.StatusOK},
		{"missing prompt", &fakeService{available: true, imageResp: okResp}, `{"size":"512x512"}`, http.StatusBadRequest},
		{"n too large", &fakeService{available: true, imageResp: okResp}, `{"prompt":"a cat","n":5}`, http.StatusBadRequest},
		{"upstream unavailable", &fakeService{err: provider.ErrUnavailable}, `{"prompt":"a cat"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRepo(t, "secret123", tt.svc)
			w := doJSON(t, h.GenerateImage, http.MethodPost, "/images/generate", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestEmbeddings(t *testing.T) {
	okResp := &types.EmbeddingResponse{
		Embeddings: [][]float32{{0.1, 0.2}},
		Model:      "text-embedding-ada-002",
	}

	tests := []struct {
		name       string
		svc        *fakeService
		body       string
		wantStatus int
	}{
		{"success", &fakeService{available: true, embeddingResp: okResp}, `{"input":"hello"}`, http.StatusOK},
		{"missing input", &fakeService{available: true, embeddingResp: okResp}, `{}`, http.StatusBadRequest},
		{"upstream unavailable", &fakeService{err: provider.ErrUnavailable}, `{"input":"hello"}`, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRepo(t, "secret123", tt.svc)
			w := doJSON(t, h.Embeddings, http.MethodPost, "/embeddings", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestListModels(t *testing.T) {
	h := newTestRepo(t, "secret123", &fakeService{
		available: true,
		modelsResp: &types.ModelsResponse{
			Models: []types.ModelInfo{{ID: "gpt-4", Object: "model", OwnedBy: "openai"}},
			Count:  1,
		},
	})

	w := doJSON(t, h.ListModels, http.MethodGet, "/models", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp types.ModelsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 || len(resp.Models) != 1 || resp.Models[0].ID != "gpt-4" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestListModelsUnavailable(t *testing.T) {
	h := newTestRepo(t, "secret123", &fakeService{err: provider.ErrUnavailable})
	w := doJSON(t, h.ListModels, http.MethodGet, "/models", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func newUsageRepo(t *testing.T) *Repo {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := newTestRepo(t, "secret123", &fakeService{})
	h.Storage = store
	return h
}

func TestUsage(t *testing.T) {
	h := newUsageRepo(t)
	if err := h.Storage.UpdateDailyUsage(&storage.DailyUsage{
		Date: "2026-08-29", Endpoint: EndpointChat, Model: "gpt-4",
		RequestCount: 2, PromptTokens: 10, CompletionTokens: 4, TotalTokens: 14,
	}); err != nil {
		t.Fatalf("seeding usage: %v", err)
	}

	w := doJSON(t, h.Usage, http.MethodGet, "/usage", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var stats storage.UsageStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if stats.TotalRequests != 2 || stats.TotalTokens != 14 {
		t.Errorf("stats = %+v, want 2 requests / 14 tokens", stats)
	}
}

func TestUsageDaily(t *testing.T) {
	h := newUsageRepo(t)
	seed := []*storage.DailyUsage{
		{Date: "2026-08-28", Endpoint: EndpointChat, Model: "gpt-4", RequestCount: 1, TotalTokens: 5},
		{Date: "2026-08-29", Endpoint: EndpointChat, Model: "gpt-4", RequestCount: 2, TotalTokens: 9},
	}
	for _, u := range seed {
		if err := h.Storage.UpdateDailyUsage(u); err != nil {
			t.Fatalf("seeding usage: %v", err)
		}
	}

	w := doJSON(t, h.Usage, http.MethodGet, "/usage?daily=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Daily []*storage.DailyUsage `json:"daily"`
		Count int                   `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 2 || len(resp.Daily) != 2 {
		t.Fatalf("got %d rows, want 2", resp.Count)
	}
	// Newest day first
	if resp.Daily[0].Date != "2026-08-29" || resp.Daily[0].RequestCount != 2 {
		t.Errorf("unexpected first row: %+v", resp.Daily[0])
	}

	// Date range narrows the view
	w = doJSON(t, h.Usage, http.MethodGet, "/usage?daily=true&end_date=2026-08-28", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp.Daily = nil
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 || resp.Daily[0].Date != "2026-08-28" {
		t.Errorf("filtered rows = %+v, want only 2026-08-28", resp.Daily)
	}
}

func TestUsageBadDate(t *testing.T) {
	h := newUsageRepo(t)
	w := doJSON(t, h.Usage, http.MethodGet, "/usage?start_date=yesterday", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogs(t *testing.T) {
	h := newUsageRepo(t)
	entry := &storage.RequestLog{
		ID: "log-1", RequestID: "req-1", Endpoint: EndpointChat, Model: "gpt-4",
		PromptTokens: 5, CompletionTokens: 2, TotalTokens: 7, StatusCode: 200, DurationMs: 120,
	}
	if err := h.Storage.LogRequest(entry); err != nil {
		t.Fatalf("seeding log: %v", err)
	}

	w := doJSON(t, h.Logs, http.MethodGet, "/logs?endpoint=chat", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Logs  []*storage.RequestLog `json:"logs"`
		Count int                   `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 || len(resp.Logs) != 1 || resp.Logs[0].RequestID != "req-1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestLogsNoStorage(t *testing.T) {
	h := newTestRepo(t, "secret123", &fakeService{})
	w := doJSON(t, h.Logs, http.MethodGet, "/logs", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
