package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"weekly-menu/internal/config"
)

// Claude completes prompts with the Anthropic messages API.
type Claude struct {
	client anthropic.Client
	cfg    config.LLMConfig
	guard  *guard
}

// NewClaude creates a Claude completer. The SDK's own retries are disabled since
// the shared executor owns retrying.
func NewClaude(cfg config.LLMConfig, logger *slog.Logger, opts ...Option) *Claude {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Claude{
		client: anthropic.NewClient(clientOpts...),
		cfg:    cfg,
		guard:  newGuard(config.ProviderClaude, cfg, logger, opts),
	}
}

// Provider implements Completer.
func (c *Claude) Provider() string { return config.ProviderClaude }

// Model implements Completer.
func (c *Claude) Model() string { return c.cfg.Model }

// Complete implements Completer.
func (c *Claude) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	return c.guard.complete(ctx, p, c.doComplete)
}

func (c *Claude) doComplete(ctx context.Context, p Prompt) (*Completion, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.cfg.Model),
		MaxTokens:   int64(c.cfg.MaxTokens),
		Temperature: anthropic.Float(c.cfg.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(p.User)),
		},
	}
	if p.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.System}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("claude api returned no text block: %w", ErrEmptyCompletion)
	}

	return &Completion{
		Text:         sb.String(),
		Model:        string(message.Model),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}
