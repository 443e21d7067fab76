package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/docchat-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string       `env:"SERVER_ADDR" envDefault:":8000"`
	ServerCfg  ServerConfig `envPrefix:"SERVER_"`

	// External service configurations
	GenerationCfg GenerationConfig `envPrefix:"GENERATION_"`
	ExtractionCfg ExtractionConfig `envPrefix:"EXTRACTION_"`
	EmbeddingCfg  EmbeddingConfig  `envPrefix:"EMBEDDING_"`
	RetrievalCfg  RetrievalConfig  `envPrefix:"RETRIEVAL_"`
	ChunkerCfg    ChunkerConfig    `envPrefix:"CHUNKER_"`
	MemoryCfg     MemoryConfig     `envPrefix:"MEMORY_"`
	StoreCfg      StoreConfig      `envPrefix:"STORE_"`
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Prompt templates (loaded from YAML file)
	PromptsFile string `env:"PROMPTS_FILE" envDefault:"internal/config/prompts.yaml"`
	Prompts     Prompts

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ServerConfig struct {
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10m"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// GenerationConfig configures the remote language-model endpoints.
// APIKey, Url and StreamURL are required before any generation call can succeed;
// they are checked by Validate at startup instead of failing config loading.
type GenerationConfig struct {
	HTTPClientConfig
	StreamURL     string        `env:"STREAM_URL"`
	StreamTimeout time.Duration `env:"STREAM_TIMEOUT" envDefault:"0s"`
	APIKey        string        `env:"API_KEY"`
	AccountType   int           `env:"ACCOUNT_TYPE" envDefault:"2"`
	Source        string        `env:"SOURCE" envDefault:"Backend - Dev - PBD"`
	Category      string        `env:"CATEGORY" envDefault:"Idea Extractor - CvF"`
	AppKey        string        `env:"APP_KEY" envDefault:"PBD"`
	MaxTokens     int           `env:"MAX_TOKENS" envDefault:"16000"`
}

// Validate reports missing generation settings
func (c GenerationConfig) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "GENERATION_API_KEY")
	}
	if c.Url == "" {
		missing = append(missing, "GENERATION_SERVICE_URL")
	}
	if c.StreamURL == "" {
		missing = append(missing, "GENERATION_STREAM_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

type ExtractionConfig struct {
	HTTPClientConfig
	ExtractEndpoint string `env:"EXTRACT_ENDPOINT" envDefault:"/extract"`
}

type EmbeddingConfig struct {
	// Provider is "local" (in-process TF-IDF) or "openai" (OpenAI-compatible API)
	Provider  string               `env:"PROVIDER" envDefault:"local"`
	BaseURL   string               `env:"BASE_URL"`
	APIKey    string               `env:"API_KEY"`
	Model     string               `env:"MODEL" envDefault:"text-embedding-3-small"`
	BatchSize int                  `env:"BATCH_SIZE" envDefault:"64"`
	Timeout   time.Duration        `env:"TIMEOUT" envDefault:"30s"`
	Retry     pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type RetrievalConfig struct {
	ChatTopK int `env:"CHAT_TOP_K" envDefault:"3"`
	AskTopK  int `env:"ASK_TOP_K" envDefault:"5"`
}

type ChunkerConfig struct {
	Size    int `env:"SIZE" envDefault:"400"`
	Overlap int `env:"OVERLAP" envDefault:"50"`
}

type MemoryConfig struct {
	MaxTokens    int `env:"MAX_TOKENS" envDefault:"2000"`
	HistoryTurns int `env:"HISTORY_TURNS" envDefault:"4"`
}

// StoreConfig controls idle eviction; zero disables it
type StoreConfig struct {
	SessionIdleTTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	DocumentIdleTTL time.Duration `env:"DOCUMENT_IDLE_TTL" envDefault:"0s"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	Dir           string `env:"DIR" envDefault:"./tmp_uploads"`
	MaxFileSize   int64  `env:"MAX_FILE_SIZE" envDefault:"52428800"`   // 50 MiB
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" envDefault:"67108864"` // 64 MiB
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Load prompt templates from YAML file
	prompts, err := LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	cfg.Prompts = prompts

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []error

	if cfg.ChunkerCfg.Size < 1 {
		errs = append(errs, fmt.Errorf("CHUNKER_SIZE must be positive, got %d", cfg.ChunkerCfg.Size))
	}

	if cfg.ChunkerCfg.Overlap < 0 || cfg.ChunkerCfg.Overlap >= cfg.ChunkerCfg.Size {
		errs = append(errs, fmt.Errorf("CHUNKER_OVERLAP must be between 0 and CHUNKER_SIZE(%d), got %d", cfg.ChunkerCfg.Size, cfg.ChunkerCfg.Overlap))
	}

	if cfg.RetrievalCfg.ChatTopK < 1 || cfg.RetrievalCfg.ChatTopK > 50 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_CHAT_TOP_K must be between 1 and 50, got %d", cfg.RetrievalCfg.ChatTopK))
	}

	if cfg.RetrievalCfg.AskTopK < 1 || cfg.RetrievalCfg.AskTopK > 50 {
		errs = append(errs, fmt.Errorf("RETRIEVAL_ASK_TOP_K must be between 1 and 50, got %d", cfg.RetrievalCfg.AskTopK))
	}

	if cfg.MemoryCfg.MaxTokens < 1 {
		errs = append(errs, fmt.Errorf("MEMORY_MAX_TOKENS must be positive, got %d", cfg.MemoryCfg.MaxTokens))
	}

	if cfg.MemoryCfg.HistoryTurns < 0 {
		errs = append(errs, fmt.Errorf("MEMORY_HISTORY_TURNS must not be negative, got %d", cfg.MemoryCfg.HistoryTurns))
	}

	switch cfg.EmbeddingCfg.Provider {
	case "local":
	case "openai":
		if cfg.EmbeddingCfg.APIKey == "" && cfg.EmbeddingCfg.BaseURL == "" {
			errs = append(errs, errors.New("EMBEDDING_API_KEY or EMBEDDING_BASE_URL is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("EMBEDDING_PROVIDER must be local or openai, got %q", cfg.EmbeddingCfg.Provider))
	}

	if cfg.FileUploadCfg.MaxFileSize < 1 || cfg.FileUploadCfg.MaxFileSize > cfg.FileUploadCfg.MaxUploadSize {
		errs = append(errs, fmt.Errorf("FILE_UPLOAD_MAX_FILE_SIZE must be between 1 and FILE_UPLOAD_MAX_UPLOAD_SIZE(%d), got %d", cfg.FileUploadCfg.MaxUploadSize, cfg.FileUploadCfg.MaxFileSize))
	}

	return errors.Join(errs...)
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
