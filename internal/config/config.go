package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ctchen222/mlb-compare/internal/validator"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings. It is read once at startup and treated as immutable.
type Config struct {
	ServerAddr string `validate:"required"`

	DatabaseURL string `validate:"required"`

	SecretKey      string        `validate:"required"`
	AccessTokenTTL time.Duration `validate:"gt=0"`

	GeminiAPIKey string
	GeminiAPIURL string `validate:"required,url"`
	GeminiModel  string `validate:"required"`

	RedisAddr    string
	OTLPEndpoint string

	CORSAllowedOrigins []string `validate:"min=1"`

	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	ttl, err := getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerAddr:         getEnvString("SERVER_ADDR", ":8000"),
		DatabaseURL:        getEnvString("DATABASE_URL", "file:mlbcompare.db"),
		SecretKey:          os.Getenv("SECRET_KEY"),
		AccessTokenTTL:     ttl,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiAPIURL:       getEnvString("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:        getEnvString("GEMINI_MODEL", "gemini-2.0-flash"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		CORSAllowedOrigins: splitList(getEnvString("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           strings.ToLower(getEnvString("LOG_LEVEL", "info")),
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid configuration: %s=%q is not a duration: %w", key, v, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
