package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const openAIBaseURL = "https://api.openai.com/v1"

var (
	ErrAPIKeyMissing   = errors.New("AI API key is not configured")
	ErrEndpointMissing = errors.New("AI endpoint is not configured")
	ErrAPIError        = errors.New("AI API error")
	ErrEmptyResponse   = errors.New("AI backend returned an empty response")
)

// chatRequest is an OpenAI-style chat completions request. Both backend
// kinds speak this shape; Ollama and LocalAI expose compatible endpoints.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewOpenAIProvider creates an OpenAI backend. The API key is required.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	return newOpenAIProvider(apiKey, model), nil
}

// newOpenAIProvider constructs the backend without validation. Used for
// the legacy best-effort path when no backend passes validation.
func newOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    openAIBaseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// Name returns the backend name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Generate sends the prompt to the chat completions endpoint and
// returns the first choice's content verbatim.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt, system string) (string, error) {
	return doChatCompletion(ctx, p.httpClient, p.baseURL, p.apiKey, p.model, prompt, system)
}

// SetBaseURL overrides the API base URL. Used by tests.
func (p *OpenAIProvider) SetBaseURL(base string) {
	p.baseURL = strings.TrimRight(base, "/")
}

// doChatCompletion performs one OpenAI-style chat completion call.
func doChatCompletion(ctx context.Context, client *http.Client, baseURL, apiKey, model, prompt, system string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:          model,
		Messages:       messages,
		ResponseFormat: &formatSpec{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error != nil {
			return "", fmt.Errorf("%w: %s", ErrAPIError, result.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}
