// Package types defines the request and response shapes of the service API.
package types

import "fmt"

// Defaults applied when optional request fields are omitted.
const (
	DefaultChatModel       = "gpt-3.5-turbo"
	DefaultCompletionModel = "gpt-3.5-turbo-instruct"
	DefaultEmbeddingModel  = "text-embedding-ada-002"
	DefaultImageModel      = "dall-e-3"
	DefaultImageSize       = "1024x1024"
	DefaultImageQuality    = "standard"

	defaultChatMaxTokens       = 1000
	defaultCompletionMaxTokens = 100
	defaultTemperature         = 0.7
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AuthRequest is the login payload carrying the access key.
type AuthRequest struct {
	AccessKey string `json:"access_key"`
}

// ChatRequest is the payload for POST /chat.
// Optional fields use pointers to distinguish unset from zero.
type ChatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"` // 0-2, default 0.7
	MaxTokens   *int      `json:"max_tokens,omitempty"`  // > 0, default 1000
}

// ApplyDefaults fills omitted optional fields with their defaults.
func (r *ChatRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultChatModel
	}
	if r.Temperature == nil {
		r.Temperature = ptr(defaultTemperature)
	}
	if r.MaxTokens == nil {
		r.MaxTokens = ptr(defaultChatMaxTokens)
	}
}

// Validate checks field constraints after defaults are applied.
func (r *ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fieldError("messages", "at least one message is required")
	}
	for i, m := range r.Messages {
		if m.Role == "" {
			return fieldError("messages", fmt.Sprintf("message %d is missing a role", i))
		}
	}
	if err := checkTemperature(r.Temperature); err != nil {
		return err
	}
	return checkMaxTokens(r.MaxTokens)
}

// CompletionRequest is the payload for POST /completion.
type CompletionRequest struct {
	Model       string   `json:"model,omitempty"`
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature,omitempty"` // 0-2, default 0.7
	MaxTokens   *int     `json:"max_tokens,omitempty"`  // > 0, default 100
}

// ApplyDefaults fills omitted optional fields with their defaults.
func (r *CompletionRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultCompletionModel
	}
	if r.Temperature == nil {
		r.Temperature = ptr(defaultTemperature)
	}
	if r.MaxTokens == nil {
		r.MaxTokens = ptr(defaultCompletionMaxTokens)
	}
}

// Validate checks field constraints after defaults are applied.
func (r *CompletionRequest) Validate() error {
	if r.Prompt == "" {
		return fieldError("prompt", "prompt is required")
	}
	if err := checkTemperature(r.Temperature); err != nil {
		return err
	}
	return checkMaxTokens(r.MaxTokens)
}

// ImageRequest is the payload for POST /images/generate.
type ImageRequest struct {
	Prompt  string `json:"prompt"`
	Size    string `json:"size,omitempty"`    // default "1024x1024"
	Quality string `json:"quality,omitempty"` // default "standard"
	N       *int   `json:"n,omitempty"`       // 1-4, default 1
}

// ApplyDefaults fills omitted optional fields with their defaults.
func (r *ImageRequest) ApplyDefaults() {
	if r.Size == "" {
		r.Size = DefaultImageSize
	}
	if r.Quality == "" {
		r.Quality = DefaultImageQuality
	}
	if r.N == nil {
		r.N = ptr(1)
	}
}

// Validate checks field constraints after defaults are applied.
func (r *ImageRequest) Validate() error {
	if r.Prompt == "" {
		return fieldError("prompt", "prompt is required")
	}
	if n := *r.N; n < 1 || n > 4 {
		return fieldError("n", "n must be between 1 and 4")
	}
	return nil
}

// EmbeddingRequest is the payload for POST /embeddings.
type EmbeddingRequest struct {
	Model string `json:"model,omitempty"`
	Input string `json:"input"`
}

// ApplyDefaults fills omitted optional fields with their defaults.
func (r *EmbeddingRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultEmbeddingModel
	}
}

// Validate checks field constraints after defaults are applied.
func (r *EmbeddingRequest) Validate() error {
	if r.Input == "" {
		return fieldError("input", "input is required")
	}
	return nil
}

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func checkTemperature(temp *float64) error {
	if t := *temp; t < 0 || t > 2 {
		return fieldError("temperature", "temperature must be between 0 and 2")
	}
	return nil
}

func checkMaxTokens(max *int) error {
	if *max <= 0 {
		return fieldError("max_tokens", "max_tokens must be greater than 0")
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
