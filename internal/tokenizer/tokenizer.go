// Package tokenizer estimates prompt token counts for usage accounting when
// the upstream response omits them.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/adimehta/aiportal/internal/types"
)

// Counter estimates token counts for request payloads.
type Counter interface {
	// CountText counts tokens in a text string for a given model.
	CountText(text string, model string) (int, error)

	// CountMessages counts prompt tokens for a chat message slice.
	CountMessages(messages []types.Message, model string) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo
	EncodingO200kBase  = "o200k_base"  // GPT-4o, o1 models
)

// Per-message overhead and reply priming, per OpenAI's documented counting
// rules for chat prompts.
const (
	messageOverhead    = 4
	replyPrimingTokens = 3
)

// modelEncoding pairs a prefix with its encoding.
type modelEncoding struct {
	prefix   string
	encoding string
}

// modelEncodings lists model prefixes and their encodings.
// Ordered by prefix length (longest first) to ensure correct matching.
var modelEncodings = []modelEncoding{
	{"text-embedding", EncodingCL100kBase},
	{"gpt-4o", EncodingO200kBase}, // Must come before "gpt-4"
	{"gpt-3.5", EncodingCL100kBase},
	{"gpt-4", EncodingCL100kBase},
	{"chatgpt", EncodingO200kBase},
	{"o1", EncodingO200kBase},
	{"o3", EncodingO200kBase},
}

// TiktokenCounter implements Counter using tiktoken-go.
type TiktokenCounter struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
}

// New creates a new TiktokenCounter.
func New() *TiktokenCounter {
	return &TiktokenCounter{
		encodings: make(map[string]*tiktoken.Tiktoken),
	}
}

// CountText counts tokens in a text string for a given model.
func (c *TiktokenCounter) CountText(text string, model string) (int, error) {
	enc, err := c.getEncoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountMessages counts prompt tokens for a chat message slice, including
// per-message overhead and reply priming.
func (c *TiktokenCounter) CountMessages(messages []types.Message, model string) (int, error) {
	total := 0

	for _, msg := range messages {
		roleTokens, err := c.CountText(msg.Role, model)
		if err != nil {
			return 0, err
		}
		contentTokens, err := c.CountText(msg.Content, model)
		if err != nil {
			return 0, err
		}
		total += roleTokens + contentTokens + messageOverhead
	}

	total += replyPrimingTokens
	return total, nil
}

// getEncoding returns the tiktoken encoding for a model, with caching.
func (c *TiktokenCounter) getEncoding(model string) (*tiktoken.Tiktoken, error) {
	encodingName := resolveEncoding(model)

	// Check cache first
	c.mu.RLock()
	enc, ok := c.encodings[encodingName]
	c.mu.RUnlock()
	if ok {
		return enc, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if enc, ok = c.encodings[encodingName]; ok {
		return enc, nil
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	c.encodings[encodingName] = enc
	return enc, nil
}

// resolveEncoding determines the encoding name for a model.
func resolveEncoding(model string) string {
	modelLower := strings.ToLower(model)

	// Check for prefix matches (ordered by length, longest first)
	for _, me := range modelEncodings {
		if strings.HasPrefix(modelLower, me.prefix) {
			return me.encoding
		}
	}

	// Default to cl100k_base for unknown models
	return EncodingCL100kBase
}
