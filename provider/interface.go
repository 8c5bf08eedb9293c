// Package provider defines the LLM providers behind the local QA backend.
//
// The local backend stands in for the remote question-answering service during
// development. It forwards each question, together with the session's earlier turns,
// to one of these providers and returns the completion as the reply.
//
// # Architecture
//
//   - provider.Provider defines the contract
//   - provider.OllamaProvider talks to a local Ollama server
//   - provider.OpenAIProvider and provider.OpenRouterProvider use openai-go
//   - provider.AnthropicProvider uses anthropic-sdk-go
//   - provider.NewProvider() creates providers from a Config
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.1",
//	})
//	if err != nil {
//	    // handle error
//	}
//	reply, err := p.Complete(ctx, messages)
package provider

import "context"

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/OpenRouter/Anthropic (unused for Ollama)
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a provider-agnostic chat turn. Role is one of RoleSystem, RoleUser or
// RoleAssistant.
type Message struct {
	Role    string
	Content string
}

// Provider produces a single, complete reply for a conversation.
type Provider interface {
	// Complete sends messages and returns the whole assistant reply.
	Complete(ctx context.Context, messages []Message) (string, error)

	// Model returns the model name used for API calls.
	Model() string

	// DisplayName returns the model name formatted for the status bar.
	DisplayName() string

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
