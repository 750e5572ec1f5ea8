package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Matching defaults applied when the environment does not override them.
// They are configuration on purpose: the matcher itself never hardcodes
// capacity or rule style.
const (
	defaultMaxCompetitors = 4
	defaultRuleStyle      = "Standard Single Elimination"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	PublicURL    string

	// Bracket matcher defaults
	DefaultMaxCompetitors int
	DefaultRuleStyle      string

	// SMTP (registration confirmation emails)
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// S3-compatible storage (fighter profile photos)
	S3AccountID       string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicBaseURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intFromEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxCompetitors, err := intFromEnv("BRACKET_DEFAULT_MAX_COMPETITORS", defaultMaxCompetitors)
	if err != nil {
		return nil, err
	}
	if maxCompetitors < 2 {
		return nil, fmt.Errorf("BRACKET_DEFAULT_MAX_COMPETITORS must be at least 2, got %d", maxCompetitors)
	}

	ruleStyle := os.Getenv("BRACKET_DEFAULT_RULE_STYLE")
	if ruleStyle == "" {
		ruleStyle = defaultRuleStyle
	}

	smtpPort, err := intFromEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:           dbURL,
		JWTSecretKey:          jwtKey,
		ServerPort:            port,
		PublicURL:             os.Getenv("PUBLIC_URL"),
		DefaultMaxCompetitors: maxCompetitors,
		DefaultRuleStyle:      ruleStyle,
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              smtpPort,
		SMTPUser:              os.Getenv("SMTP_USER"),
		SMTPPass:              os.Getenv("SMTP_PASS"),
		SMTPFrom:              os.Getenv("SMTP_FROM"),
		S3AccountID:           os.Getenv("S3_ACCOUNT_ID"),
		S3AccessKeyID:         os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:     os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3BucketName:          os.Getenv("S3_BUCKET_NAME"),
		S3PublicBaseURL:       os.Getenv("S3_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return value, nil
}
