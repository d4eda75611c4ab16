package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/lauvickie617/vickie-ai-portfolio/model"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

// ConvertToOllamaMessages is a field copy; Ollama uses the same role names
// and takes system messages inline.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return result
}

// ConvertToOpenAIMessages converts model.Message to OpenAI chat messages.
// Unknown roles are sent as user messages.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			result[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			result[i] = openai.AssistantMessage(msg.Content)
		default:
			result[i] = openai.UserMessage(msg.Content)
		}
	}
	return result
}

// ConvertToAnthropicMessages splits out system entries, which the Messages
// API takes as a separate system parameter.
func ConvertToAnthropicMessages(messages []model.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	result := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, systemBlocks
}

// ConvertToGeminiContents converts model.Message to Gemini contents. Gemini
// calls the assistant "model"; system entries must be removed beforehand
// with model.SplitSystem and are skipped here.
func ConvertToGeminiContents(messages []model.Message) []*genai.Content {
	result := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		var role genai.Role
		switch msg.Role {
		case "system":
			continue
		case "assistant":
			role = genai.RoleModel
		default:
			role = genai.RoleUser
		}
		result = append(result, genai.NewContentFromText(msg.Content, role))
	}
	return result
}
