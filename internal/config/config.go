package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env        string `envconfig:"APP_ENV" default:"development"`
	Port       int    `envconfig:"APP_PORT" default:"8080"`
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	AI         AIConfig
	Cloudinary CloudinaryConfig
	SMTP       SMTPConfig
	GitHub     GitHubConfig
	Interview  InterviewConfig
	App        AppConfig
	CORS       CORSConfig
	Limiter    RateLimiterConfig
}

// database configuration
type DBConfig struct {
	DSN         string        `envconfig:"DATABASE_URL" required:"true"`
	MaxConns    int           `envconfig:"DB_MAX_CONNS" default:"20"`
	MaxLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWT configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"24h"`
}

// AIConfig selects and configures the language model backend. The provider
// is chosen once at process start and injected into every component.
type AIConfig struct {
	Provider      string        `envconfig:"AI_PROVIDER" default:"gemini"` // gemini | ollama
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-exp"`
	OllamaBaseURL string        `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OllamaModel   string        `envconfig:"OLLAMA_MODEL" default:"llama2"`
	Timeout       time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
}

type CloudinaryConfig struct {
	CloudName string        `envconfig:"CLOUDINARY_CLOUD_NAME" required:"true"`
	APIKey    string        `envconfig:"CLOUDINARY_API_KEY" required:"true"`
	APISecret string        `envconfig:"CLOUDINARY_API_SECRET" required:"true"`
	Folder    string        `envconfig:"CLOUDINARY_FOLDER" default:"hirewise-resumes"`
	Timeout   time.Duration `envconfig:"CLOUDINARY_TIMEOUT" default:"30s"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USER"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM"`
}

type GitHubConfig struct {
	Token   string        `envconfig:"GITHUB_TOKEN"`
	Timeout time.Duration `envconfig:"GITHUB_TIMEOUT" default:"30s"`
}

// InterviewConfig covers the token-based pre-screening flow. The pass
// threshold itself is a fixed policy in the scoring code, not configuration.
type InterviewConfig struct {
	DeadlineTTL time.Duration `envconfig:"INTERVIEW_DEADLINE_TTL" default:"72h"`
}

type AppConfig struct {
	CompanyName string `envconfig:"COMPANY_NAME" default:"Our Company"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// rate limiting configuration for the public endpoints
type RateLimiterConfig struct {
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	Enabled  bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER=gemini")
		}
	case "ollama":
		if c.AI.OllamaBaseURL == "" {
			return fmt.Errorf("OLLAMA_BASE_URL is required when AI_PROVIDER=ollama")
		}
	default:
		return fmt.Errorf("invalid AI_PROVIDER: %s (must be gemini or ollama)", c.AI.Provider)
	}
	if c.Interview.DeadlineTTL < time.Hour {
		return fmt.Errorf("INTERVIEW_DEADLINE_TTL must be at least 1h")
	}
	if c.Limiter.Requests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	if len(c.CORS.TrustedOrigins) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, DB.MaxConns=%d, AI.Provider=%s, "+
		"Interview.DeadlineTTL=%s, Limiter.Requests=%d, Limiter.Enabled=%t, CORS.Origins=%d}",
		c.Env, c.Port, c.DB.MaxConns, c.AI.Provider,
		c.Interview.DeadlineTTL, c.Limiter.Requests, c.Limiter.Enabled, len(c.CORS.TrustedOrigins))
}
