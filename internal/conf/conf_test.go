package conf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{WebhookTimeout: time.Minute},
		Zalo:   ZaloConfig{AppID: "app", AppSecret: "secret"},
		LLM:    LLMConfig{APIKey: "sk-test"},
		Search: SearchConfig{Backend: SearchBackendFTS, SimilarityThreshold: 0.7},
		Credential: CredentialConfig{
			EncryptionKey: "key",
		},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing api key", func(c *Config) { c.LLM.APIKey = "" }, "OPENAI_API_KEY"},
		{"missing zalo app", func(c *Config) { c.Zalo.AppSecret = "" }, "ZALO_APP_ID/ZALO_APP_SECRET"},
		{"missing encryption key", func(c *Config) { c.Credential.EncryptionKey = "" }, "TOKEN_ENCRYPTION_KEY"},
		{"unknown backend", func(c *Config) { c.Search.Backend = "elastic" }, "SEARCH_BACKEND"},
		{"bad threshold", func(c *Config) { c.Search.SimilarityThreshold = 1.5 }, "SEARCH_SIMILARITY_THRESHOLD"},
		{"zero timeout", func(c *Config) { c.Server.WebhookTimeout = 0 }, "WEBHOOK_TIMEOUT_SECONDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %v", err)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SEARCH_BACKEND", "")
	t.Setenv("WEBHOOK_TIMEOUT_SECONDS", "15")
	t.Setenv("ZALO_SEND_RATE", "not-a-number")
	t.Setenv("PROMPTS_CONFIG_PATH", "")

	cfg := LoadFromEnv()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, SearchBackendFTS, cfg.Search.Backend)
	assert.Equal(t, 15*time.Second, cfg.Server.WebhookTimeout)
	assert.Equal(t, float64(5), cfg.Zalo.SendRate)
	assert.InDelta(t, 0.7, cfg.Search.SimilarityThreshold, 0.0001)
	require.NotNil(t, cfg.Prompts)
	assert.Equal(t, "Trident Digital", cfg.Prompts.Company.Name)
}

func TestLoadFromEnv_EmptySyncScheduleDisables(t *testing.T) {
	t.Setenv("SYNC_SCHEDULE", "")
	assert.Equal(t, "", LoadFromEnv().Sync.Schedule)
}

func TestLoadPromptsConfig_FillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := `
company:
  name: "Sơn Việt"
classifier:
  temperature: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, loaded, err := LoadPromptsConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, loaded)

	assert.Equal(t, "Sơn Việt", cfg.Company.Name)
	assert.Equal(t, DefaultPromptsConfig().Company.Aliases, cfg.Company.Aliases)
	assert.InDelta(t, 0.2, cfg.Classifier.Temperature, 0.0001)
	assert.Equal(t, 2000, cfg.Classifier.MaxTokens)

	prompt := cfg.ClassifierSystemPrompt()
	assert.Contains(t, prompt, `"Sơn Việt"`)
	assert.Contains(t, prompt, `"ác min"`)
	assert.NotContains(t, prompt, "{{")
}

func TestLoadPromptsConfig_MissingExplicitPath(t *testing.T) {
	_, _, err := LoadPromptsConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSearchParserUserPrompt(t *testing.T) {
	cfg := DefaultPromptsConfig()
	prompt := cfg.SearchParserUserPrompt("sơn màu kem")
	assert.True(t, strings.Contains(prompt, `Query: "sơn màu kem"`))
}

func TestToUsecaseConfigs(t *testing.T) {
	cfg := validConfig()
	cfg.Prompts = DefaultPromptsConfig()
	cfg.Zalo.OAuthURL = "https://oauth.zaloapp.com"

	cc := cfg.ToClassifierConfig()
	assert.Contains(t, cc.SystemPrompt, "CHECK_STOCK_LEVELS")
	assert.Contains(t, cc.SystemPrompt, "Trident Digital")
	assert.InDelta(t, 0.7, cc.Temperature, 0.0001)
	assert.Equal(t, 2000, cc.MaxTokens)

	ac := cfg.ToAssistantConfig()
	assert.Equal(t, 400, ac.MaxTokens)
	assert.NotEmpty(t, ac.FallbackReply)

	qc := cfg.ToQueryParserConfig()
	require.NotNil(t, qc.UserPrompt)
	assert.Contains(t, qc.UserPrompt("sơn kem"), "sơn kem")

	assert.Equal(t, "app", cfg.ToAuthorizationConfig().AppID)

	cfg.Prompts = nil
	assert.Equal(t, 2000, cfg.ToClassifierConfig().MaxTokens)
}
