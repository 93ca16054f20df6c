package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv string `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`

	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	InterToolsAddr  string        `mapstructure:"INTERTOOLS_ADDR" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required,url|uri"`

	JWTSecret        string        `mapstructure:"JWT_SECRET" validate:"required,min=32"`
	JWTExpiresIn     time.Duration `mapstructure:"JWT_EXPIRES_IN" validate:"required"`
	JWTRefreshExpiry time.Duration `mapstructure:"JWT_REFRESH_EXPIRES_IN" validate:"required"`

	CORSOrigin string `mapstructure:"CORS_ORIGIN" validate:"required"`

	RedisAddr        string `mapstructure:"REDIS_ADDR" validate:"required,hostname_port"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	AsynqConcurrency int    `mapstructure:"ASYNQ_CONCURRENCY" validate:"gte=1,lte=1000"`

	// Optional third-party credentials, passed through to executors/integrations.
	OpenAIAPIKey    string `mapstructure:"OPENAI_API_KEY"`
	AnthropicAPIKey string `mapstructure:"ANTHROPIC_API_KEY"`
	GitHubToken     string `mapstructure:"GITHUB_TOKEN"`
	VercelToken     string `mapstructure:"VERCEL_TOKEN"`

	// Public base URL baked into the served widget script.
	InterToolsURL string `mapstructure:"INTERTOOLS_URL" validate:"omitempty,url"`
}

// Development reports whether the process runs in development mode.
// Verbose SQL logging is only enabled when true.
func (c *Config) Development() bool { return c.AppEnv == "development" }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load initializes configuration using Viper. It loads .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:3001")
	v.SetDefault("INTERTOOLS_ADDR", "0.0.0.0:3002")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("JWT_EXPIRES_IN", "1h")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "168h")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("ASYNQ_CONCURRENCY", 10)
	v.SetDefault("INTERTOOLS_URL", "http://localhost:3002")

	// Optional config file
	_ = v.ReadInConfig()

	// Bind env without prefix for convenience
	keys := []string{
		"APP_ENV",
		"HTTP_ADDR",
		"INTERTOOLS_ADDR",
		"SHUTDOWN_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"JWT_SECRET",
		"JWT_EXPIRES_IN",
		"JWT_REFRESH_EXPIRES_IN",
		"CORS_ORIGIN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"ASYNQ_CONCURRENCY",
		"OPENAI_API_KEY",
		"ANTHROPIC_API_KEY",
		"GITHUB_TOKEN",
		"VERCEL_TOKEN",
		"INTERTOOLS_URL",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Duration fields may arrive as strings
	for _, f := range []struct {
		key  string
		dest *time.Duration
	}{
		{"SHUTDOWN_TIMEOUT", &c.ShutdownTimeout},
		{"JWT_EXPIRES_IN", &c.JWTExpiresIn},
		{"JWT_REFRESH_EXPIRES_IN", &c.JWTRefreshExpiry},
	} {
		if s := v.GetString(f.key); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", f.key, err)
			}
			*f.dest = d
		}
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}
