package config

import (
	"fmt"
	"strings"
	"time"

	"weekly-menu/internal/domain/entity"
)

// Provider names accepted by MENU_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// GistConfig configures access to the preference store.
type GistConfig struct {
	// GistID identifies the gist holding intake files
	GistID string
	// Token is a GitHub token with gist scope
	Token string
	// APIURL is the GitHub API base. Default: https://api.github.com
	APIURL string
	// Timeout bounds one HTTP request. Default: 30s
	Timeout time.Duration
}

// LoadGistConfig reads GIST_ID, GITHUB_TOKEN and GIST_API_URL.
func LoadGistConfig() (*GistConfig, error) {
	cfg := &GistConfig{
		GistID:  GetEnvString("GIST_ID", ""),
		Token:   GetEnvString("GITHUB_TOKEN", ""),
		APIURL:  strings.TrimRight(GetEnvString("GIST_API_URL", "https://api.github.com"), "/"),
		Timeout: GetEnvDuration("GIST_TIMEOUT", 30*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *GistConfig) Validate() error {
	if c.GistID == "" {
		return &ConfigError{Key: "GIST_ID", Message: "environment variable is required"}
	}
	if c.Token == "" {
		return &ConfigError{Key: "GITHUB_TOKEN", Message: "environment variable is required"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Key: "GIST_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

// LLMConfig configures the completion provider used for menu generation.
type LLMConfig struct {
	// Provider is one of openai, claude, gemini. Default: openai
	Provider string
	// APIKey is the key for the selected provider
	APIKey string
	// Model overrides the provider's default model
	Model string
	// BaseURL overrides the provider endpoint (OpenAI and Claude only)
	BaseURL string
	// MaxTokens bounds the completion length. Default: 1500
	MaxTokens int
	// Temperature is the sampling temperature. Default: 0.7
	Temperature float64
	// Timeout bounds one completion request. Default: 120s
	Timeout time.Duration
}

var providerKeyEnv = map[string]string{
	ProviderOpenAI: "OPENAI_API_KEY",
	ProviderClaude: "ANTHROPIC_API_KEY",
	ProviderGemini: "GEMINI_API_KEY",
}

// DefaultModel returns the model used when MENU_MODEL is not set.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderClaude:
		return "claude-sonnet-4-5-20250929"
	case ProviderGemini:
		return "gemini-1.5-flash"
	default:
		return "gpt-4"
	}
}

// LoadLLMConfig reads MENU_PROVIDER and the matching API key.
func LoadLLMConfig() (*LLMConfig, error) {
	provider := strings.ToLower(GetEnvString("MENU_PROVIDER", ProviderOpenAI))
	cfg := &LLMConfig{
		Provider:    provider,
		Model:       GetEnvString("MENU_MODEL", DefaultModel(provider)),
		BaseURL:     GetEnvString("MENU_API_BASE_URL", ""),
		MaxTokens:   GetEnvInt("MENU_MAX_TOKENS", 1500),
		Temperature: GetEnvFloat("MENU_TEMPERATURE", 0.7),
		Timeout:     GetEnvDuration("MENU_TIMEOUT", 120*time.Second),
	}
	if keyEnv, ok := providerKeyEnv[provider]; ok {
		cfg.APIKey = GetEnvString(keyEnv, "")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *LLMConfig) Validate() error {
	keyEnv, ok := providerKeyEnv[c.Provider]
	if !ok {
		return &ConfigError{Key: "MENU_PROVIDER", Message: fmt.Sprintf("unsupported provider %q (want openai, claude or gemini)", c.Provider)}
	}
	if c.APIKey == "" {
		return &ConfigError{Key: keyEnv, Message: "environment variable is required"}
	}
	if c.Model == "" {
		return &ConfigError{Key: "MENU_MODEL", Message: "cannot be empty"}
	}
	if c.MaxTokens <= 0 {
		return &ConfigError{Key: "MENU_MAX_TOKENS", Message: fmt.Sprintf("must be positive, got %d", c.MaxTokens)}
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return &ConfigError{Key: "MENU_TEMPERATURE", Message: fmt.Sprintf("must be between 0 and 2, got %v", c.Temperature)}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Key: "MENU_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

// NotionConfig configures the document store.
type NotionConfig struct {
	Token      string
	DatabaseID string
	// APIURL is the Notion API base. Default: https://api.notion.com/v1
	APIURL string
	// Version is sent as the Notion-Version header. Default: 2022-06-28
	Version string
	// Timeout bounds one HTTP request. Default: 30s
	Timeout time.Duration
}

// LoadNotionConfig reads NOTION_TOKEN and NOTION_DATABASE_ID.
func LoadNotionConfig() (*NotionConfig, error) {
	cfg := &NotionConfig{
		Token:      GetEnvString("NOTION_TOKEN", ""),
		DatabaseID: GetEnvString("NOTION_DATABASE_ID", ""),
		APIURL:     strings.TrimRight(GetEnvString("NOTION_API_URL", "https://api.notion.com/v1"), "/"),
		Version:    GetEnvString("NOTION_VERSION", "2022-06-28"),
		Timeout:    GetEnvDuration("NOTION_TIMEOUT", 30*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *NotionConfig) Validate() error {
	if c.Token == "" {
		return &ConfigError{Key: "NOTION_TOKEN", Message: "environment variable is required"}
	}
	if c.DatabaseID == "" {
		return &ConfigError{Key: "NOTION_DATABASE_ID", Message: "environment variable is required"}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Key: "NOTION_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

// SlackConfig configures the optional publish notification.
type SlackConfig struct {
	Enabled    bool
	WebhookURL string
	// Timeout bounds one webhook request. Default: 10s
	Timeout time.Duration
}

// LoadSlackConfig reads SLACK_ENABLED and SLACK_WEBHOOK_URL.
// Validation only applies when notifications are enabled.
func LoadSlackConfig() (*SlackConfig, error) {
	cfg := &SlackConfig{
		Enabled:    GetEnvBool("SLACK_ENABLED", false),
		WebhookURL: GetEnvString("SLACK_WEBHOOK_URL", ""),
		Timeout:    GetEnvDuration("SLACK_TIMEOUT", 10*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *SlackConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := entity.ValidateWebhookURL(c.WebhookURL); err != nil {
		return &ConfigError{Key: "SLACK_WEBHOOK_URL", Message: "invalid when SLACK_ENABLED is set", Err: err}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Key: "SLACK_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

// DiscordConfig configures the optional Discord announcement.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	// Timeout bounds one webhook request. Default: 10s
	Timeout time.Duration
}

// LoadDiscordConfig reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL.
func LoadDiscordConfig() (*DiscordConfig, error) {
	cfg := &DiscordConfig{
		Enabled:    GetEnvBool("DISCORD_ENABLED", false),
		WebhookURL: GetEnvString("DISCORD_WEBHOOK_URL", ""),
		Timeout:    GetEnvDuration("DISCORD_TIMEOUT", 10*time.Second),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *DiscordConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := entity.ValidateWebhookURL(c.WebhookURL); err != nil {
		return &ConfigError{Key: "DISCORD_WEBHOOK_URL", Message: "invalid when DISCORD_ENABLED is set", Err: err}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Key: "DISCORD_TIMEOUT", Message: "must be positive"}
	}
	return nil
}

// PathsConfig locates the rules file, the hand-off directory and the menu calendar.
type PathsConfig struct {
	RulesPath string
	DataDir   string
	// Location decides which Monday is "this week". Default: Asia/Tokyo
	Location *time.Location
}

// LoadPathsConfig reads RULES_PATH, DATA_DIR and MENU_TIMEZONE.
// An invalid MENU_TIMEZONE falls back to the default with a warning.
func LoadPathsConfig() (*PathsConfig, []string, error) {
	loc, err := LoadEnvLocation("MENU_TIMEZONE", "Asia/Tokyo")
	if err != nil {
		return nil, nil, err
	}
	return &PathsConfig{
		RulesPath: GetEnvString("RULES_PATH", DefaultRulesPath),
		DataDir:   GetEnvString("DATA_DIR", "data"),
		Location:  loc.Value,
	}, loc.Warnings, nil
}
