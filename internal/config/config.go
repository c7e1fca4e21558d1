package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	// Telegram
	BotToken   string
	WebhookURL string
	// WebhookSecret is the last path segment Telegram posts updates to.
	WebhookSecret string

	// Database
	DatabaseURL string

	// Celo
	Network    string
	RPCURL     string
	PrivateKey string
	GasReserve decimal.Decimal
	PayPause   time.Duration

	// Sessions
	RedisURL   string
	SessionTTL time.Duration

	// AI assistant
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Web Server
	WebBind       string
	PublicBaseURL string
	JWTSecret     string
}

var webhookSecretPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,}$`)

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Network:       strings.ToLower(getEnvDefault("CELO_NETWORK", "alfajores")),
		RPCURL:        os.Getenv("CELO_RPC_URL"),
		PrivateKey:    strings.TrimSpace(os.Getenv("PRIVATE_KEY")),
		RedisURL:      os.Getenv("REDIS_URL"),
		AIAPIKey:      getEnvDefault("AI_API_KEY", os.Getenv("MISTRAL_API_KEY")),
		AIBaseURL:     getEnvDefault("AI_BASE_URL", "https://api.mistral.ai/v1"),
		AIModel:       getEnvDefault("AI_MODEL", "mistral-small-latest"),
		WebBind:       getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		PublicBaseURL: strings.TrimRight(getEnvDefault("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		JWTSecret:     getEnvDefault("JWT_SECRET", "dev-only-change-me"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("PRIVATE_KEY is required")
	}

	cfg.WebhookSecret = strings.TrimSpace(os.Getenv("WEBHOOK_SECRET"))
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = deriveWebhookSecret(cfg.BotToken)
	}
	if !webhookSecretPattern.MatchString(cfg.WebhookSecret) {
		return nil, fmt.Errorf("WEBHOOK_SECRET must be at least 16 characters of A-Z, a-z, 0-9, _ or -")
	}

	reserve, err := decimal.NewFromString(getEnvDefault("GAS_RESERVE", "0.001"))
	if err != nil || reserve.IsNegative() {
		return nil, fmt.Errorf("GAS_RESERVE must be a non-negative decimal")
	}
	cfg.GasReserve = reserve

	if cfg.PayPause, err = parseDuration("PAYROLL_PAUSE", "2s"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AIEnabled reports whether free-text messages should be answered by the assistant.
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

func deriveWebhookSecret(botToken string) string {
	sum := sha256.Sum256([]byte("wageflow-webhook:" + botToken))
	return hex.EncodeToString(sum[:16])
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnvDefault(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a duration like %q", key, defaultValue)
	}
	return d, nil
}
