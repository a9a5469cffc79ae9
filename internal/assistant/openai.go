package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI calls an OpenAI-compatible /chat/completions endpoint (OpenAI,
// OpenRouter, vLLM, Ollama and the like).
type OpenAI struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
}

// NewOpenAI creates the client.  An empty baseURL targets api.openai.com and
// a nil httpClient uses http.DefaultClient; the caller's context bounds each
// call.
func NewOpenAI(baseURL, apiKey, model string, httpClient *http.Client) *OpenAI {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{httpClient: httpClient, url: buildURL(baseURL), apiKey: apiKey, model: model}
}

func buildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

type openaiResponse struct {
	Choices []struct {
		Message openaiMessage `json:"message"`
	} `json:"choices"`
}

// Reply sends the system prompt, the history and the new prompt in one
// non-streaming request.
func (o *OpenAI) Reply(ctx context.Context, req Request) (string, error) {
	wire := openaiRequest{Model: o.model}
	if req.System != "" {
		wire.Messages = append(wire.Messages, openaiMessage{Role: "system", Content: req.System})
	}
	for _, t := range req.History {
		wire.Messages = append(wire.Messages, openaiMessage{Role: t.Role, Content: t.Content})
	}
	wire.Messages = append(wire.Messages, openaiMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("openai: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Provider: "openai", Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out openaiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return out.Choices[0].Message.Content, nil
}
