package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGistConfig(t *testing.T) {
	t.Setenv("GIST_ID", "abc123")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GIST_API_URL", "http://localhost:9999/")

	cfg, err := LoadGistConfig()
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.GistID)
	assert.Equal(t, "http://localhost:9999", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadGistConfig_MissingToken(t *testing.T) {
	t.Setenv("GIST_ID", "abc123")
	t.Setenv("GITHUB_TOKEN", "")

	_, err := LoadGistConfig()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "GITHUB_TOKEN", cfgErr.Key)
}

func TestLoadLLMConfig(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantErr   string
		wantModel string
	}{
		{
			name:      "openai default",
			env:       map[string]string{"MENU_PROVIDER": "", "OPENAI_API_KEY": "sk-test"},
			wantModel: "gpt-4",
		},
		{
			name:      "claude",
			env:       map[string]string{"MENU_PROVIDER": "claude", "ANTHROPIC_API_KEY": "sk-ant"},
			wantModel: DefaultModel(ProviderClaude),
		},
		{
			name:      "gemini with model override",
			env:       map[string]string{"MENU_PROVIDER": "Gemini", "GEMINI_API_KEY": "g-key", "MENU_MODEL": "gemini-2.0-flash"},
			wantModel: "gemini-2.0-flash",
		},
		{
			name:    "missing key",
			env:     map[string]string{"MENU_PROVIDER": "openai", "OPENAI_API_KEY": ""},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"MENU_PROVIDER": "local"},
			wantErr: "MENU_PROVIDER",
		},
		{
			name:    "temperature out of range",
			env:     map[string]string{"MENU_PROVIDER": "openai", "OPENAI_API_KEY": "sk-test", "MENU_TEMPERATURE": "3"},
			wantErr: "MENU_TEMPERATURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"MENU_PROVIDER", "MENU_MODEL", "MENU_TEMPERATURE", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadLLMConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantModel, cfg.Model)
			assert.Equal(t, 1500, cfg.MaxTokens)
			assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
			assert.NotEmpty(t, cfg.APIKey)
		})
	}
}

func TestLoadNotionConfig(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_x")
	t.Setenv("NOTION_DATABASE_ID", "db-1")
	t.Setenv("NOTION_API_URL", "")
	t.Setenv("NOTION_VERSION", "")

	cfg, err := LoadNotionConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.notion.com/v1", cfg.APIURL)
	assert.Equal(t, "2022-06-28", cfg.Version)

	t.Setenv("NOTION_DATABASE_ID", "")
	_, err = LoadNotionConfig()
	assert.ErrorContains(t, err, "NOTION_DATABASE_ID")
}

func TestLoadSlackConfig(t *testing.T) {
	t.Setenv("SLACK_ENABLED", "false")
	t.Setenv("SLACK_WEBHOOK_URL", "")
	cfg, err := LoadSlackConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)

	t.Setenv("SLACK_ENABLED", "true")
	_, err = LoadSlackConfig()
	assert.ErrorContains(t, err, "SLACK_WEBHOOK_URL")

	t.Setenv("SLACK_WEBHOOK_URL", "http://169.254.169.254/latest")
	_, err = LoadSlackConfig()
	assert.ErrorContains(t, err, "private network")

	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")
	cfg, err = LoadSlackConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
}

func TestLoadDiscordConfig(t *testing.T) {
	t.Setenv("DISCORD_ENABLED", "true")
	t.Setenv("DISCORD_WEBHOOK_URL", "discord.com/api/webhooks/1/x")
	_, err := LoadDiscordConfig()
	assert.ErrorContains(t, err, "DISCORD_WEBHOOK_URL")

	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/x")
	cfg, err := LoadDiscordConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadPathsConfig(t *testing.T) {
	t.Setenv("RULES_PATH", "")
	t.Setenv("DATA_DIR", "/tmp/menu")
	t.Setenv("MENU_TIMEZONE", "")

	cfg, warnings, err := LoadPathsConfig()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, DefaultRulesPath, cfg.RulesPath)
	assert.Equal(t, "/tmp/menu", cfg.DataDir)
	assert.Equal(t, "Asia/Tokyo", cfg.Location.String())

	t.Setenv("MENU_TIMEZONE", "Not/AZone")
	cfg, warnings, err = LoadPathsConfig()
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "Asia/Tokyo", cfg.Location.String())
}
