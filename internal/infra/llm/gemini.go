package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"weekly-menu/internal/config"
)

type generateFunc func(ctx context.Context, p Prompt) (*genai.GenerateContentResponse, error)

// Gemini completes prompts with the Google generative language API.
type Gemini struct {
	client   *genai.Client
	cfg      config.LLMConfig
	guard    *guard
	generate generateFunc
}

// NewGemini creates a Gemini completer. Close releases the underlying client.
func NewGemini(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger, opts ...Option) (*Gemini, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	g := &Gemini{
		client: cl,
		cfg:    cfg,
		guard:  newGuard(config.ProviderGemini, cfg, logger, opts),
	}
	g.generate = g.generateContent
	return g, nil
}

// Provider implements Completer.
func (g *Gemini) Provider() string { return config.ProviderGemini }

// Model implements Completer.
func (g *Gemini) Model() string { return g.cfg.Model }

// Close releases the client connection.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Complete implements Completer.
func (g *Gemini) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	return g.guard.complete(ctx, p, g.doComplete)
}

func (g *Gemini) generateContent(ctx context.Context, p Prompt) (*genai.GenerateContentResponse, error) {
	m := g.client.GenerativeModel(g.cfg.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(float32(g.cfg.Temperature)),
		MaxOutputTokens: ptrInt32(int32(g.cfg.MaxTokens)),
	}
	if p.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}
	}
	return m.GenerateContent(ctx, genai.Text(p.User))
}

func (g *Gemini) doComplete(ctx context.Context, p Prompt) (*Completion, error) {
	resp, err := g.generate(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return nil, fmt.Errorf("gemini api returned no text: %w", ErrEmptyCompletion)
	}

	c := &Completion{Text: text, Model: g.cfg.Model}
	if resp.UsageMetadata != nil {
		c.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		c.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return c, nil
}

// firstText concatenates the text parts of the first candidate that has any.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }

func ptrInt32(v int32) *int32 { return &v }
