package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// NewGeminiClient creates an LLMClient backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	gc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		gc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	c, err := genai.NewClient(ctx, gc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return newClient(cfg, &geminiBackend{client: c, model: cfg.Model}, observer), nil
}

type geminiBackend struct {
	client *genai.Client
	model  string
}

func (b *geminiBackend) complete(ctx context.Context, call completionCall) (completion, error) {
	contents := make([]*genai.Content, 0, len(call.History)+1)
	for _, m := range call.History {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(call.Prompt, genai.RoleUser))

	temp := float32(call.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(call.MaxTokens),
	}
	if call.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(call.System, genai.RoleUser)
	}

	res, err := b.client.Models.GenerateContent(ctx, call.Model, contents, cfg)
	if err != nil {
		return completion{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return completion{}, fmt.Errorf("%w: gemini returned empty text", ErrInvalidOutput)
	}
	return completion{Text: text, Model: res.ModelVersion}, nil
}

func (b *geminiBackend) ping(ctx context.Context) bool {
	_, err := b.client.Models.Get(ctx, b.model, nil)
	return err == nil
}
