package provider

import (
	"qachat/storage"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// FromConversation converts stored conversation messages into provider messages,
// prepending systemPrompt when it is not empty. The "ai" role becomes "assistant".
//
// Example:
//
//	msgs := FromConversation("Answer briefly.", []storage.Message{
//	    {Role: storage.RoleUser, Content: "Hello"},
//	    {Role: storage.RoleAI, Content: "Hi there!"},
//	})
//	// msgs[0].Role == "system", msgs[2].Role == "assistant"
func FromConversation(systemPrompt string, messages []storage.Message) []Message {
	result := make([]Message, 0, len(messages)+1)
	if systemPrompt != "" {
		result = append(result, Message{Role: RoleSystem, Content: systemPrompt})
	}
	for _, msg := range messages {
		role := RoleUser
		if msg.Role == storage.RoleAI {
			role = RoleAssistant
		}
		result = append(result, Message{Role: role, Content: msg.Content})
	}
	return result
}

// ConvertToOllamaMessages is a direct field mapping; the roles already match.
func ConvertToOllamaMessages(messages []Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// ConvertToOpenAIMessages converts messages to OpenAI chat params. Used by OpenAI and
// OpenRouter. Unknown roles are sent as user messages.
func ConvertToOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))

	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Content)
		default:
			result[i] = openai.UserMessage(msg.Content)
		}
	}

	return result
}

// convertToAnthropicMessages converts messages to Anthropic format.
// Returns the message array and any system prompt found.
func convertToAnthropicMessages(messages []Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			// Anthropic uses a separate system parameter, not in messages array
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
				Text: msg.Content,
			})

		case RoleAssistant:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)),
			)

		default:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)),
			)
		}
	}

	return anthropicMsgs, systemBlocks
}
