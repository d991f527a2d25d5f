// Package provider wraps the upstream OpenAI SDK behind a small interface so
// handlers can be exercised against fakes.
package provider

import (
	"context"
	"errors"

	"github.com/adimehta/aiportal/internal/types"
)

// ErrUnavailable is returned by every operation when no upstream API key is
// configured. Callers translate it to a 503.
var ErrUnavailable = errors.New("OpenAI client not available")

// Service defines the upstream operations the façade passes through.
// Each call is a single pass-through: no retries, no caching.
type Service interface {
	// Available reports whether an upstream client is configured.
	Available() bool

	// ChatCompletion generates a chat completion.
	ChatCompletion(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)

	// TextCompletion generates a legacy text completion.
	TextCompletion(ctx context.Context, req *types.CompletionRequest) (*types.CompletionResponse, error)

	// GenerateImage generates an image from a prompt.
	GenerateImage(ctx context.Context, req *types.ImageRequest) (*types.ImageResponse, error)

	// CreateEmbeddings embeds the input text.
	CreateEmbeddings(ctx context.Context, req *types.EmbeddingRequest) (*types.EmbeddingResponse, error)

	// ListModels lists the models available upstream.
	ListModels(ctx context.Context) (*types.ModelsResponse, error)
}
