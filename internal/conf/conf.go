package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tridentdigital/zalo-inventory-bot/internal/biz/usecase"
)

// Search backends
const (
	SearchBackendFTS    = "fts"
	SearchBackendVector = "vector"
)

// Config represents application configuration
type Config struct {
	Server ServerConfig
	Zalo   ZaloConfig
	LLM    LLMConfig
	Store  StoreConfig
	Search SearchConfig

	// Credential file encryption
	Credential CredentialConfig

	// Search index resync
	Sync SyncConfig

	// Prompts configuration (loaded from YAML)
	Prompts     *PromptsConfig
	PromptsPath string

	// MCP server configuration
	MCP MCPConfig

	// Debug mode
	Debug bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr           string
	WebhookSecret  string
	WebhookTimeout time.Duration
}

// ZaloConfig contains Zalo Official Account configuration
type ZaloConfig struct {
	AppID        string
	AppSecret    string
	RefreshToken string // long-lived bootstrap token
	CallbackURL  string
	OAuthURL     string
	APIURL       string
	SendRate     float64 // messages per second
	SendBurst    int
}

// LLMConfig contains OpenAI-compatible model configuration
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
}

// StoreConfig contains database configuration
type StoreConfig struct {
	DBPath string
}

// SearchConfig selects the product search backend
type SearchConfig struct {
	Backend             string
	VectorDir           string
	SimilarityThreshold float32
}

// CredentialConfig contains token file configuration
type CredentialConfig struct {
	TokenFile     string
	EncryptionKey string
}

// SyncConfig contains index resync configuration
type SyncConfig struct {
	Schedule string // cron spec, empty disables
}

// MCPConfig contains MCP server configuration
type MCPConfig struct {
	APIURL string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".zalo-inventory")

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "inventory.db")
	}

	vectorDir := os.Getenv("VECTOR_DIR")
	if vectorDir == "" {
		vectorDir = filepath.Join(dataDir, "vectors")
	}

	// Load prompts from YAML
	promptsPath := os.Getenv("PROMPTS_CONFIG_PATH")
	promptsConfig, loadedPath, err := LoadPromptsConfig(promptsPath)
	if err != nil {
		promptsConfig = DefaultPromptsConfig()
	}

	syncSchedule, ok := os.LookupEnv("SYNC_SCHEDULE")
	if !ok {
		syncSchedule = "@every 1h"
	}

	return &Config{
		Server: ServerConfig{
			Addr:           getEnv("HTTP_ADDR", ":8000"),
			WebhookSecret:  os.Getenv("WEBHOOK_SECRET"),
			WebhookTimeout: time.Duration(getEnvInt("WEBHOOK_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Zalo: ZaloConfig{
			AppID:        os.Getenv("ZALO_APP_ID"),
			AppSecret:    os.Getenv("ZALO_APP_SECRET"),
			RefreshToken: os.Getenv("ZALO_REFRESH_TOKEN"),
			CallbackURL:  os.Getenv("ZALO_CALLBACK_URL"),
			OAuthURL:     getEnv("ZALO_OAUTH_URL", "https://oauth.zaloapp.com"),
			APIURL:       getEnv("ZALO_API_URL", "https://openapi.zalo.me"),
			SendRate:     getEnvFloat("ZALO_SEND_RATE", 5),
			SendBurst:    getEnvInt("ZALO_SEND_BURST", 5),
		},
		LLM: LLMConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			BaseURL:        os.Getenv("OPENAI_BASE_URL"),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Store: StoreConfig{
			DBPath: dbPath,
		},
		Search: SearchConfig{
			Backend:             getEnv("SEARCH_BACKEND", SearchBackendFTS),
			VectorDir:           vectorDir,
			SimilarityThreshold: float32(getEnvFloat("SEARCH_SIMILARITY_THRESHOLD", 0.7)),
		},
		Credential: CredentialConfig{
			TokenFile:     getEnv("TOKEN_FILE", "secure_tokens.enc"),
			EncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		},
		Sync: SyncConfig{
			Schedule: syncSchedule,
		},
		Prompts:     promptsConfig,
		PromptsPath: loadedPath,
		MCP: MCPConfig{
			APIURL: getEnv("INVENTORY_API_URL", "http://127.0.0.1:8000"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return &ConfigError{Field: "OPENAI_API_KEY", Message: "required"}
	}
	if c.Zalo.AppID == "" || c.Zalo.AppSecret == "" {
		return &ConfigError{Field: "ZALO_APP_ID/ZALO_APP_SECRET", Message: "required"}
	}
	if c.Credential.EncryptionKey == "" {
		return &ConfigError{Field: "TOKEN_ENCRYPTION_KEY", Message: "required"}
	}
	switch c.Search.Backend {
	case SearchBackendFTS, SearchBackendVector:
	default:
		return &ConfigError{Field: "SEARCH_BACKEND", Message: "must be fts or vector"}
	}
	if c.Search.SimilarityThreshold <= 0 || c.Search.SimilarityThreshold > 1 {
		return &ConfigError{Field: "SEARCH_SIMILARITY_THRESHOLD", Message: "must be in (0, 1]"}
	}
	if c.Server.WebhookTimeout <= 0 {
		return &ConfigError{Field: "WEBHOOK_TIMEOUT_SECONDS", Message: "must be positive"}
	}
	return nil
}

// SignatureCheckEnabled reports whether webhook signatures are verified
func (c *Config) SignatureCheckEnabled() bool {
	return c.Server.WebhookSecret != ""
}

// ToClassifierConfig converts to usecase.ClassifierConfig
func (c *Config) ToClassifierConfig() usecase.ClassifierConfig {
	if c.Prompts == nil {
		return usecase.DefaultClassifierConfig
	}
	return usecase.ClassifierConfig{
		SystemPrompt: c.Prompts.ClassifierSystemPrompt(),
		Temperature:  c.Prompts.Classifier.Temperature,
		MaxTokens:    c.Prompts.Classifier.MaxTokens,
	}
}

// ToAssistantConfig converts to usecase.AssistantConfig
func (c *Config) ToAssistantConfig() usecase.AssistantConfig {
	p := c.Prompts
	if p == nil {
		p = DefaultPromptsConfig()
	}
	return usecase.AssistantConfig{
		SystemPrompt:  p.AssistantSystemPrompt(),
		FallbackReply: p.Assistant.FallbackReply,
		Temperature:   0.7,
		MaxTokens:     p.Assistant.MaxTokens,
	}
}

// ToQueryParserConfig converts to usecase.QueryParserConfig
func (c *Config) ToQueryParserConfig() usecase.QueryParserConfig {
	p := c.Prompts
	if p == nil {
		p = DefaultPromptsConfig()
	}
	return usecase.QueryParserConfig{
		SystemPrompt: p.SearchParserSystemPrompt(),
		UserPrompt:   p.SearchParserUserPrompt,
	}
}

// ToAuthorizationConfig converts to usecase.AuthorizationConfig
func (c *Config) ToAuthorizationConfig() usecase.AuthorizationConfig {
	return usecase.AuthorizationConfig{
		AppID:       c.Zalo.AppID,
		CallbackURL: c.Zalo.CallbackURL,
		OAuthURL:    c.Zalo.OAuthURL,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
