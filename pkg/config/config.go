package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig     `envconfig:"SERVER"`
	Database   DatabaseConfig   `envconfig:"DB"`
	Redis      RedisConfig      `envconfig:"REDIS"`
	JWT        JWTConfig        `envconfig:"JWT"`
	Storage    StorageConfig    `envconfig:"STORAGE"`
	AssemblyAI AssemblyAIConfig `envconfig:"ASSEMBLYAI"`
	LLM        LLMConfig        `envconfig:"LLM"`
	Media      MediaConfig      `envconfig:"MEDIA"`
	Pipeline   PipelineConfig   `envconfig:"PIPELINE"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `split_words:"true" default:"8080"`
	Host            string        `split_words:"true" default:"0.0.0.0"`
	Environment     string        `split_words:"true" default:"development"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:3000"`
	ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `split_words:"true" default:"localhost"`
	Port        string `split_words:"true" default:"5432"`
	User        string `split_words:"true" default:"postgres"`
	Password    string `split_words:"true" default:"postgres"`
	Name        string `split_words:"true" default:"magicscuts"`
	SSLMode     string `split_words:"true" default:"disable"`
	MaxConns    int    `split_words:"true" default:"25"`
	MinConns    int    `split_words:"true" default:"5"`
	AutoMigrate bool   `split_words:"true" default:"true"`
}

// RedisConfig holds Redis configuration. When disabled the project cache
// falls back to process memory.
type RedisConfig struct {
	Enabled  bool          `split_words:"true" default:"false"`
	Host     string        `split_words:"true" default:"localhost"`
	Port     string        `split_words:"true" default:"6379"`
	Password string        `split_words:"true"`
	DB       int           `split_words:"true" default:"0"`
	CacheTTL time.Duration `split_words:"true" default:"10m"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret string        `split_words:"true" default:"your-access-secret-change-in-production"`
	AccessExpiry time.Duration `split_words:"true" default:"15m"`
	Issuer       string        `split_words:"true" default:"magicscuts"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `split_words:"true" default:"localhost:9000"`
	AccessKeyID     string `split_words:"true" default:"minioadmin"`
	SecretAccessKey string `split_words:"true" default:"minioadmin"`
	BucketName      string `split_words:"true" default:"magicscuts"`
	Region          string `split_words:"true" default:"us-east-1"`
	UseSSL          bool   `split_words:"true" default:"false"`
	// PublicURL is the externally reachable base used when building object
	// URLs. Defaults to the endpoint itself.
	PublicURL string `split_words:"true"`
	KeyPrefix string `split_words:"true" default:"magicscuts"`
}

// AssemblyAIConfig holds speech-to-text configuration
type AssemblyAIConfig struct {
	APIKey      string `split_words:"true"`
	SpeechModel string `split_words:"true" default:"best"`
}

// LLMConfig holds configuration for the OpenAI-compatible selection model
type LLMConfig struct {
	APIKey          string `split_words:"true"`
	BaseURL         string `split_words:"true" default:"https://api.openai.com/v1"`
	Model           string `split_words:"true" default:"o3-mini"`
	MaxOutputTokens int64  `split_words:"true" default:"20000"`
}

// MediaConfig holds transcoder and upload limits
type MediaConfig struct {
	FFmpegPath            string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	FFprobePath           string `envconfig:"FFPROBE_PATH" default:"ffprobe"`
	TempDir               string `split_words:"true"`
	MaxUploadBytes        int64  `split_words:"true" default:"1073741824"`
	PremiumMaxUploadBytes int64  `split_words:"true" default:"4294967296"`
}

// PipelineConfig holds orchestration tuning
type PipelineConfig struct {
	UploadConcurrency int           `split_words:"true" default:"10"`
	RetryMaxElapsed   time.Duration `split_words:"true" default:"30s"`
	CreditsPerProject int           `split_words:"true" default:"1"`
	RunTimeout        time.Duration `split_words:"true" default:"2h"`
}

// Load loads configuration from environment variables and validates the
// keys the API server needs
func Load() (*Config, error) {
	config, err := Read()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Read loads configuration without validating engine credentials. Used by
// tooling that only talks to the database.
func Read() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.AssemblyAI.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Pipeline.UploadConcurrency < 1 || c.Pipeline.UploadConcurrency > 10 {
		return fmt.Errorf("PIPELINE_UPLOAD_CONCURRENCY must be between 1 and 10")
	}
	if c.Pipeline.CreditsPerProject < 1 {
		return fmt.Errorf("PIPELINE_CREDITS_PER_PROJECT must be positive")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// GetStoragePublicURL returns the base URL objects are served from
func (c *Config) GetStoragePublicURL() string {
	if c.Storage.PublicURL != "" {
		return c.Storage.PublicURL
	}
	scheme := "http"
	if c.Storage.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Storage.Endpoint)
}
