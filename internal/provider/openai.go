package provider

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"

	"github.com/adimehta/aiportal/internal/types"
)

// OpenAI implements Service against the OpenAI API.
// A nil client (no API key configured) is a valid state: every operation
// fails with ErrUnavailable and the rest of the service keeps working.
type OpenAI struct {
	client *openai.Client
}

// NewOpenAI creates the upstream service. An empty API key yields an
// unavailable service, not an error.
func NewOpenAI(apiKey string) *OpenAI {
	if apiKey == "" {
		return &OpenAI{}
	}
	return &OpenAI{client: openai.NewClient(apiKey)}
}

// Available reports whether an upstream client is configured.
func (s *OpenAI) Available() bool {
	return s.client != nil
}

// ChatCompletion generates a chat completion and reshapes the first choice.
func (s *OpenAI) ChatCompletion(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: sdkTemperature(*req.Temperature),
		MaxTokens:   *req.MaxTokens,
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &types.ChatResponse{
		Message: content,
		Model:   req.Model,
		Usage:   convertUsage(resp.Usage),
		ID:      resp.ID,
	}, nil
}

// TextCompletion generates a legacy text completion.
func (s *OpenAI) TextCompletion(ctx context.Context, req *types.CompletionRequest) (*types.CompletionResponse, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	resp, err := s.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		Temperature: sdkTemperature(*req.Temperature),
		MaxTokens:   *req.MaxTokens,
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Text
	}

	// The SDK returns usage as a pointer here; upstream may omit it.
	var usage *types.Usage
	if resp.Usage != nil {
		usage = convertUsage(*resp.Usage)
	}

	return &types.CompletionResponse{
		Text:  text,
		Model: req.Model,
		Usage: usage,
		ID:    resp.ID,
	}, nil
}

// GenerateImage generates an image with DALL-E and returns the first result.
func (s *OpenAI) GenerateImage(ctx context.Context, req *types.ImageRequest) (*types.ImageResponse, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Model:   types.DefaultImageModel,
		Prompt:  req.Prompt,
		Size:    req.Size,
		Quality: req.Quality,
		N:       *req.N,
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	out := &types.ImageResponse{
		Prompt:  req.Prompt,
		Size:    req.Size,
		Quality: req.Quality,
	}
	if len(resp.Data) > 0 {
		out.URL = resp.Data[0].URL
		out.RevisedPrompt = resp.Data[0].RevisedPrompt
	}

	return out, nil
}

// CreateEmbeddings embeds the input text.
func (s *OpenAI) CreateEmbeddings(ctx context.Context, req *types.EmbeddingRequest) (*types.EmbeddingResponse, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(req.Model),
		Input: req.Input,
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}

	return &types.EmbeddingResponse{
		Embeddings: embeddings,
		Model:      req.Model,
		Usage: &types.Usage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// ListModels lists the models available upstream.
func (s *OpenAI) ListModels(ctx context.Context) (*types.ModelsResponse, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	resp, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}

	models := make([]types.ModelInfo, len(resp.Models))
	for i, m := range resp.Models {
		models[i] = types.ModelInfo{
			ID:      m.ID,
			Object:  m.Object,
			Created: m.CreatedAt,
			OwnedBy: m.OwnedBy,
		}
	}

	return &types.ModelsResponse{
		Models: models,
		Count:  len(models),
	}, nil
}

// sdkTemperature maps a requested temperature to the SDK field. The SDK
// marshals its temperature with omitempty, so an explicit 0 would vanish
// from the wire and upstream would sample at its own default. The smallest
// positive float32 survives marshaling and is indistinguishable from 0 for
// sampling purposes.
func sdkTemperature(requested float64) float32 {
	if requested == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(requested)
}

// convertUsage maps SDK usage to the service envelope.
func convertUsage(u openai.Usage) *types.Usage {
	return &types.Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

// upstreamError wraps an SDK failure for the 500 envelope.
func upstreamError(err error) error {
	return fmt.Errorf("OpenAI API error: %w", err)
}
