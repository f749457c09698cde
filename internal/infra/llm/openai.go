package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"weekly-menu/internal/config"
)

// OpenAI completes prompts with the chat completions API.
type OpenAI struct {
	client *openai.Client
	cfg    config.LLMConfig
	guard  *guard
}

// NewOpenAI creates an OpenAI completer. cfg.BaseURL, when set, replaces the API endpoint.
func NewOpenAI(cfg config.LLMConfig, logger *slog.Logger, opts ...Option) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		guard:  newGuard(config.ProviderOpenAI, cfg, logger, opts),
	}
}

// Provider implements Completer.
func (o *OpenAI) Provider() string { return config.ProviderOpenAI }

// Model implements Completer.
func (o *OpenAI) Model() string { return o.cfg.Model }

// Complete implements Completer.
func (o *OpenAI) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	return o.guard.complete(ctx, p, o.doComplete)
}

func (o *OpenAI) doComplete(ctx context.Context, p Prompt) (*Completion, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: float32(o.cfg.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api returned no choices: %w", ErrEmptyCompletion)
	}

	return &Completion{
		Text:         resp.Choices[0].Message.Content,
		Model:        resp.Model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
