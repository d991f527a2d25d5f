package types

// Usage mirrors the upstream token accounting block.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AuthResponse is the login result.
type AuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
	Token         string `json:"token,omitempty"`
}

// ChatResponse is the reshaped chat completion result.
type ChatResponse struct {
	Message string `json:"message"`
	Model   string `json:"model"`
	Usage   *Usage `json:"usage,omitempty"`
	ID      string `json:"id"`
}

// CompletionResponse is the reshaped text completion result.
type CompletionResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
	Usage *Usage `json:"usage,omitempty"`
	ID    string `json:"id"`
}

// ImageResponse is the reshaped image generation result.
type ImageResponse struct {
	URL           string `json:"url"`
	Prompt        string `json:"prompt"`
	Size          string `json:"size"`
	Quality       string `json:"quality"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// EmbeddingResponse is the reshaped embeddings result.
type EmbeddingResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Model      string      `json:"model"`
	Usage      *Usage      `json:"usage,omitempty"`
}

// ModelInfo describes a single upstream model.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResponse is the model listing result.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
	Count  int         `json:"count"`
}

// HealthResponse reports service and collaborator state.
type HealthResponse struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	OpenAIClient   string   `json:"openai_client"`
	Authentication string   `json:"authentication"`
	ServiceVersion string   `json:"service_version"`
	Warnings       []string `json:"warnings,omitempty"`
}
