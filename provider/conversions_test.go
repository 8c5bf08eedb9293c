package provider

import (
	"testing"
	"time"

	"qachat/storage"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestFromConversation(t *testing.T) {
	tests := []struct {
		name     string
		system   string
		input    []storage.Message
		expected []Message
	}{
		{
			name:     "empty slice",
			input:    []storage.Message{},
			expected: []Message{},
		},
		{
			name:   "system prompt prepended",
			system: "Answer briefly.",
			input: []storage.Message{
				{Role: storage.RoleUser, Content: "Hello"},
			},
			expected: []Message{
				{Role: RoleSystem, Content: "Answer briefly."},
				{Role: RoleUser, Content: "Hello"},
			},
		},
		{
			name: "ai becomes assistant",
			input: []storage.Message{
				{Role: storage.RoleUser, Content: "Hello", Timestamp: time.Now()},
				{Role: storage.RoleAI, Content: "Hi there", Timestamp: time.Now()},
				{Role: storage.RoleUser, Content: "How are you?", Timestamp: time.Now()},
			},
			expected: []Message{
				{Role: RoleUser, Content: "Hello"},
				{Role: RoleAssistant, Content: "Hi there"},
				{Role: RoleUser, Content: "How are you?"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromConversation(tt.system, tt.input)

			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}
			for i, msg := range result {
				if msg != tt.expected[i] {
					t.Errorf("message %d: got %+v, want %+v", i, msg, tt.expected[i])
				}
			}
		})
	}
}

func TestConvertToOllamaMessages(t *testing.T) {
	input := []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi"},
	}

	result := ConvertToOllamaMessages(input)
	if len(result) != len(input) {
		t.Fatalf("length mismatch: got %d, want %d", len(result), len(input))
	}
	for i, msg := range result {
		if msg.Role != input[i].Role || msg.Content != input[i].Content {
			t.Errorf("message %d: got %s/%q, want %s/%q", i, msg.Role, msg.Content, input[i].Role, input[i].Content)
		}
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	input := []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi"},
		{Role: "tool", Content: "fallback"},
	}

	result := ConvertToOpenAIMessages(input)
	if len(result) != 4 {
		t.Fatalf("length mismatch: got %d, want 4", len(result))
	}
	if result[0].OfSystem == nil {
		t.Error("message 0 is not a system message")
	}
	if result[1].OfUser == nil {
		t.Error("message 1 is not a user message")
	}
	if result[2].OfAssistant == nil {
		t.Error("message 2 is not an assistant message")
	}
	if result[3].OfUser == nil {
		t.Error("unknown role was not sent as a user message")
	}
}

func TestConvertToAnthropicMessages(t *testing.T) {
	input := []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "Hello"},
		{Role: RoleAssistant, Content: "Hi"},
	}

	msgs, system := convertToAnthropicMessages(input)
	if len(system) != 1 || system[0].Text != "be terse" {
		t.Errorf("system blocks = %+v", system)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("message 0 role = %s", msgs[0].Role)
	}
	if msgs[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("message 1 role = %s", msgs[1].Role)
	}
}

func TestStripProviderPrefix(t *testing.T) {
	tests := map[string]string{
		"meta-llama/llama-3.2-90b-instruct": "llama-3.2-90b-instruct",
		"qwen/qwen3-coder:free":             "qwen3-coder:free",
		"gpt-4o-mini":                       "gpt-4o-mini",
	}
	for in, want := range tests {
		if got := stripProviderPrefix(in); got != want {
			t.Errorf("stripProviderPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}
