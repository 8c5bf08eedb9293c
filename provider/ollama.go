package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider talks to an Ollama server through its official API client.
type OllamaProvider struct {
	client  *api.Client
	model   string
	baseURL string
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL (e.g., "http://localhost:11434").
//     If empty, defaults to "http://localhost:11434".
//   - model: The model name to use (e.g., "llama3.1:latest").
//     If empty, defaults to "llama3.1:latest".
//
// Returns an error if the baseURL is invalid.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Complete implements Provider.Complete with a non-streaming chat request.
func (p *OllamaProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: ConvertToOllamaMessages(messages),
		Stream:   &stream,
	}

	var reply strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return reply.String(), nil
}

func (p *OllamaProvider) Model() string {
	return p.model
}

// DisplayName is the model name; Ollama has no vendor prefixes.
func (p *OllamaProvider) DisplayName() string {
	return p.model
}

// Ping checks if the Ollama server is reachable by listing its models.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if _, err := p.client.List(ctx); err != nil {
		return fmt.Errorf("failed to reach Ollama at %s: %w", p.baseURL, err)
	}
	return nil
}
