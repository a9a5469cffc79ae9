// Package assistant talks to the remote language model that voices MAL0.
// Two providers are supported: any OpenAI-compatible chat completions
// endpoint and Google Gemini.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eternal-sentinels/es-archive/internal/config"
)

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request is a single completion call.
type Request struct {
	System  string
	History []Turn
	Prompt  string
}

// Client produces the assistant's reply for a request.
type Client interface {
	Reply(ctx context.Context, req Request) (string, error)
}

// ErrNoAPIKey is returned by New when no key is configured.
var ErrNoAPIKey = errors.New("assistant: no API key configured")

// ErrEmptyReply is returned when the provider answers without text.
var ErrEmptyReply = errors.New("assistant: empty reply")

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Body)
}

// quotaMarkers are substrings that identify exhausted credit or throttling.
var quotaMarkers = []string{"rate limit", "insufficient", "quota", "credit", "429", "402", "billing"}

// IsQuotaError reports whether err means the provider refused for billing or
// throttling reasons rather than a transport or format problem.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.Status == 429 || apiErr.Status == 402) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// New builds the client selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, nil), nil
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("assistant: unknown provider %q", cfg.Provider)
	}
}
