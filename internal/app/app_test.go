package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-menu/internal/config"
	"weekly-menu/internal/infra/notifier"
)

const rulesYAML = `default_settings:
  days_needed: 7
  max_cooking_time: 60
  priority_recipe_sites: [cookpad.com]
  cuisine_preferences: [和食]
`

var envKeys = []string{
	"RULES_PATH", "DATA_DIR", "MENU_TIMEZONE",
	"GIST_ID", "GITHUB_TOKEN",
	"MENU_PROVIDER", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
	"NOTION_TOKEN", "NOTION_DATABASE_ID",
	"SLACK_ENABLED", "SLACK_WEBHOOK_URL", "DISCORD_ENABLED", "DISCORD_WEBHOOK_URL",
	"LOG_LEVEL", "LOG_FORMAT",
}

func newEnv(t *testing.T) *Env {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("RULES_PATH", filepath.Join(dir, "rules.yaml"))
	t.Setenv("LOG_LEVEL", "error")

	env, err := Init("test")
	require.NoError(t, err)
	t.Cleanup(env.Close)
	return env
}

func writeRules(t *testing.T, env *Env) {
	t.Helper()
	require.NoError(t, os.WriteFile(env.Paths.RulesPath, []byte(rulesYAML), 0o644))
}

func requireConfigKey(t *testing.T, err error, key string) {
	t.Helper()
	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, key, cfgErr.Key)
}

func TestInit(t *testing.T) {
	env := newEnv(t)

	assert.Equal(t, "Asia/Tokyo", env.Paths.Location.String())
	assert.Contains(t, env.Files.Path("intake.json"), filepath.Join("data", "intake.json"))
	assert.NotNil(t, env.Logger)
}

func TestInit_InvalidTimezoneFallsBack(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	t.Setenv("MENU_TIMEZONE", "Not/AZone")

	env, err := Init("test")
	require.NoError(t, err)
	defer env.Close()
	assert.Equal(t, "Asia/Tokyo", env.Paths.Location.String())
}

func TestGenerator_MissingRulesFailsFirst(t *testing.T) {
	env := newEnv(t)

	_, err := env.Generator(context.Background())
	requireConfigKey(t, err, "RULES_PATH")
}

func TestGenerator_MissingAPIKey(t *testing.T) {
	env := newEnv(t)
	writeRules(t, env)

	_, err := env.Generator(context.Background())
	requireConfigKey(t, err, "OPENAI_API_KEY")
}

func TestGenerator_OpenAI(t *testing.T) {
	env := newEnv(t)
	writeRules(t, env)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	g, err := env.Generator(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, g.Defaults.DaysNeeded)
	assert.Equal(t, env.Paths.Location, g.Location)
}

func TestGenerator_GeminiClosedWithEnv(t *testing.T) {
	env := newEnv(t)
	writeRules(t, env)
	t.Setenv("MENU_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "AIza-test")

	_, err := env.Generator(context.Background())
	require.NoError(t, err)
	assert.Len(t, env.closers, 1)

	env.Close()
	assert.Empty(t, env.closers)
}

type countingCloser struct{ n int }

func (c *countingCloser) Close() error {
	c.n++
	return nil
}

func TestClose_ReleasesTrackedClientsOnce(t *testing.T) {
	env := newEnv(t)
	c := &countingCloser{}
	env.track(c)

	env.Close()
	env.Close()
	assert.Equal(t, 1, c.n)
}

func TestIntakeService_RequiresGist(t *testing.T) {
	env := newEnv(t)

	_, err := env.IntakeService()
	requireConfigKey(t, err, "GIST_ID")

	t.Setenv("GIST_ID", "abc")
	_, err = env.IntakeService()
	requireConfigKey(t, err, "GITHUB_TOKEN")

	t.Setenv("GITHUB_TOKEN", "ghp_test")
	svc, err := env.IntakeService()
	require.NoError(t, err)
	assert.Same(t, env.Files, svc.Saver)
}

func TestPublisher(t *testing.T) {
	env := newEnv(t)

	_, err := env.Publisher()
	requireConfigKey(t, err, "NOTION_TOKEN")

	t.Setenv("NOTION_TOKEN", "secret_test")
	t.Setenv("NOTION_DATABASE_ID", "db")
	p, err := env.Publisher()
	require.NoError(t, err)
	assert.IsType(t, &notifier.NoOpNotifier{}, p.Notifier)
}

func TestRunner(t *testing.T) {
	env := newEnv(t)
	writeRules(t, env)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GIST_ID", "abc")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	_, err := env.Runner(context.Background(), nil)
	requireConfigKey(t, err, "NOTION_TOKEN")

	t.Setenv("NOTION_TOKEN", "secret_test")
	t.Setenv("NOTION_DATABASE_ID", "db")
	r, err := env.Runner(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, r.Intake)
	assert.Same(t, env.Files, r.Clearer)
	assert.NotNil(t, r.Archiver)
}
