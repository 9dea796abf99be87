package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "HRNEXUS"

// Policy corpus backends.
const (
	PolicySourceDir = "dir"
	PolicySourceS3  = "s3"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"10"`

	OpenAIAPIKey        string  `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL       string  `envconfig:"OPENAI_BASE_URL"`
	ChatModel           string  `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel      string  `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int     `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	GenerationRPS       float64 `envconfig:"GENERATION_RPS" default:"5"`
	GenerationBurst     int     `envconfig:"GENERATION_BURST" default:"10"`

	PolicySource string `envconfig:"POLICY_SOURCE" default:"dir"`
	PolicyDir    string `envconfig:"POLICY_DIR" default:"policies"`
	// Zero disables the background corpus sync.
	PolicySyncInterval time.Duration `envconfig:"POLICY_SYNC_INTERVAL" default:"0"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"hrnexus-policies"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	RegulationSource string `envconfig:"REGULATION_SOURCE" default:"simulated_internet/gov_page.html"`
	LegalRecipient   string `envconfig:"LEGAL_RECIPIENT" default:"legal@company.com"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.PolicySource != PolicySourceDir && cfg.PolicySource != PolicySourceS3 {
		return nil, fmt.Errorf("invalid %s_POLICY_SOURCE %q (expected %q or %q)", envPrefix, cfg.PolicySource, PolicySourceDir, PolicySourceS3)
	}
	if cfg.PolicySource == PolicySourceS3 && !cfg.HasS3() {
		return nil, fmt.Errorf("%s_POLICY_SOURCE=s3 requires S3 endpoint and credentials", envPrefix)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

// TracesSampleRate samples every trace in development and a tenth elsewhere.
func (c *Config) TracesSampleRate() float64 {
	if c.Environment == "development" {
		return 1.0
	}
	return 0.1
}
