package ai

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// CompatProvider calls any OpenAI-compatible chat completions endpoint
// such as Ollama or LocalAI. The endpoint is required; the credential is
// optional since local endpoints typically run unauthenticated.
type CompatProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewCompatProvider creates an endpoint-compatible backend.
func NewCompatProvider(baseURL, apiKey, model string) (*CompatProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrEndpointMissing
	}
	return newCompatProvider(baseURL, apiKey, model), nil
}

// newCompatProvider constructs the backend without validation. Used for
// the legacy best-effort path when no backend passes validation.
func newCompatProvider(baseURL, apiKey, model string) *CompatProvider {
	return &CompatProvider{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

// Name returns the backend name.
func (p *CompatProvider) Name() string {
	return "compat"
}

// Generate sends the prompt to the configured endpoint and returns the
// first choice's content verbatim.
func (p *CompatProvider) Generate(ctx context.Context, prompt, system string) (string, error) {
	return doChatCompletion(ctx, p.httpClient, p.baseURL, p.apiKey, p.model, prompt, system)
}
