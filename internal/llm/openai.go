package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// NewOpenAIClient creates an LLMClient backed by the OpenAI chat completions
// API. cfg.Endpoint, when set, replaces the default base URL so any
// OpenAI-compatible server can be used.
func NewOpenAIClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		oc.BaseURL = cfg.Endpoint
	}
	return newClient(cfg, &openAIBackend{client: openai.NewClientWithConfig(oc)}, observer), nil
}

type openAIBackend struct {
	client *openai.Client
}

func (b *openAIBackend) complete(ctx context.Context, call completionCall) (completion, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(call.History)+2)
	if call.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: call.System})
	}
	for _, m := range call.History {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: call.Prompt})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       call.Model,
		Messages:    msgs,
		Temperature: float32(call.Temperature),
		MaxTokens:   call.MaxTokens,
	})
	if err != nil {
		return completion{}, err
	}
	if len(resp.Choices) == 0 {
		return completion{}, fmt.Errorf("%w: no choices returned", ErrInvalidOutput)
	}
	return completion{Text: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

func (b *openAIBackend) ping(ctx context.Context) bool {
	_, err := b.client.ListModels(ctx)
	return err == nil
}
