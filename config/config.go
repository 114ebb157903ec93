package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the docquery server.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Chroma    ChromaConfig    `mapstructure:"chroma"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Database  DatabaseConfig  `mapstructure:"database"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	PDF       PDFConfig       `mapstructure:"pdf"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DocumentsConfig controls what gets indexed and how it is chunked.
type DocumentsConfig struct {
	Dir          string `mapstructure:"dir"`
	Watch        bool   `mapstructure:"watch"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
	TopK         int    `mapstructure:"top_k"`
	ExcerptLen   int    `mapstructure:"excerpt_len"`
}

// ChromaConfig holds vector store configuration
type ChromaConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Collection string `mapstructure:"collection"`
}

// EmbeddingConfig holds the Ollama embedding endpoint configuration
type EmbeddingConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LLMConfig holds Gemini configuration and pricing in USD per million tokens.
type LLMConfig struct {
	APIKey           string  `mapstructure:"api_key"`
	Model            string  `mapstructure:"model"`
	Temperature      float64 `mapstructure:"temperature"`
	InputPerMillion  float64 `mapstructure:"input_per_million"`
	OutputPerMillion float64 `mapstructure:"output_per_million"`
	Encoding         string  `mapstructure:"encoding"`
}

// DatabaseConfig holds the usage ledger location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig holds per-client limits for the query endpoint
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// PDFConfig holds the UniPDF license key
type PDFConfig struct {
	LicenseKey string `mapstructure:"license_key"`
}

// Load loads configuration from an optional file, a .env file and the environment.
func Load(configPath string) (*Config, error) {
	// A missing .env is normal; the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DOCQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "DOCQUERY_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind llm.api_key: %w", err)
	}
	if err := v.BindEnv("pdf.license_key", "DOCQUERY_PDF_LICENSE_KEY", "UNIDOC_LICENSE_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind pdf.license_key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("documents.dir", "./pdfs")
	v.SetDefault("documents.watch", true)
	v.SetDefault("documents.chunk_size", 1000)
	v.SetDefault("documents.chunk_overlap", 200)
	v.SetDefault("documents.top_k", 3)
	v.SetDefault("documents.excerpt_len", 200)

	v.SetDefault("chroma.base_url", "http://localhost:8000")
	v.SetDefault("chroma.collection", "pdf-documents")

	v.SetDefault("embedding.base_url", "http://localhost:11434")
	v.SetDefault("embedding.model", "nomic-embed-text:v1.5")

	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.input_per_million", 0.30)
	v.SetDefault("llm.output_per_million", 2.50)
	v.SetDefault("llm.encoding", "cl100k_base")

	v.SetDefault("database.path", "./data/usage.db")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 5)
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Documents.ChunkSize <= 0 {
		return fmt.Errorf("documents.chunk_size must be positive, got %d", c.Documents.ChunkSize)
	}
	if c.Documents.ChunkOverlap < 0 || c.Documents.ChunkOverlap >= c.Documents.ChunkSize {
		return fmt.Errorf("documents.chunk_overlap must be in [0, chunk_size), got %d", c.Documents.ChunkOverlap)
	}
	if c.Documents.TopK <= 0 {
		return fmt.Errorf("documents.top_k must be positive, got %d", c.Documents.TopK)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be positive when enabled")
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
