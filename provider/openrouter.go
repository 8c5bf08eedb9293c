package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
)

// OpenRouterProvider connects to OpenRouter's OpenAI-compatible API.
type OpenRouterProvider struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenRouterProvider creates a new OpenRouter provider instance.
//
// Parameters:
//   - baseURL: OpenRouter API base URL (default: "https://openrouter.ai/api/v1")
//   - apiKey: OpenRouter API key (required)
//   - model: Model to use, with vendor prefix (default: "meta-llama/llama-3.2-90b-instruct")
func NewOpenRouterProvider(baseURL, apiKey, model string) (*OpenRouterProvider, error) {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}
	if model == "" {
		model = "meta-llama/llama-3.2-90b-instruct"
	}

	return &OpenRouterProvider{
		client:  newOpenAIClient(baseURL, apiKey),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Complete implements Provider.Complete.
func (p *OpenRouterProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	reply, err := completeOpenAI(ctx, p.client, p.model, messages)
	if err != nil {
		return "", fmt.Errorf("OpenRouter completion failed: %w", err)
	}
	return reply, nil
}

// Model returns the full name with vendor prefix (e.g., "qwen/qwen3-coder:free").
func (p *OpenRouterProvider) Model() string {
	return p.model
}

// DisplayName strips the vendor prefix (e.g., "qwen3-coder:free").
func (p *OpenRouterProvider) DisplayName() string {
	return stripProviderPrefix(p.model)
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenRouterProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("OpenRouter ping failed: %w", err)
	}
	return nil
}

// stripProviderPrefix removes vendor prefixes from OpenRouter model names.
// Example: "meta-llama/llama-3.2-90b-instruct" → "llama-3.2-90b-instruct"
func stripProviderPrefix(modelName string) string {
	if idx := strings.Index(modelName, "/"); idx != -1 {
		return modelName[idx+1:]
	}
	return modelName
}
