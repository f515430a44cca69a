package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	JWTSecret string

	// Redis (optional; caching is skipped when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string

	// Text generation service (OpenAI-compatible)
	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	// External market context
	InflationURL      string
	StockPrimaryURL   string
	StockSecondaryURL string

	// Exchange rates
	CurrencyAPIHost string
	CurrencyAPIKey  string
	CentralBankURL  string

	// Scheduling
	InsightCron  string
	ReminderCron string

	// SMTP for subscription reminders
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	// Load .env file if present, otherwise rely on the environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBConn:   getEnv("DB_CONN", "host=localhost port=5432 user=fintrek password=fintrek dbname=fintrek sslmode=disable"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		LLMEndpoint: getEnv("LLM_ENDPOINT", "https://api.openai.com/v1"),
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),

		InflationURL:      getEnv("INFLATION_URL", "https://api.api-ninjas.com/v1/inflation?country=us"),
		StockPrimaryURL:   getEnv("STOCK_PRIMARY_URL", "https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=SPY"),
		StockSecondaryURL: getEnv("STOCK_SECONDARY_URL", "https://api.polygon.io/v2/aggs/ticker/SPY/prev"),

		CurrencyAPIHost: getEnv("CURRENCY_API_HOST", "currency-converter5.p.rapidapi.com"),
		CurrencyAPIKey:  getEnv("CURRENCY_API_KEY", ""),
		CentralBankURL:  getEnv("CENTRAL_BANK_URL", "https://www.cbr.ru/scripts/XML_daily.asp"),

		InsightCron:  getEnv("INSIGHT_CRON", "0 6 * * *"),
		ReminderCron: getEnv("REMINDER_CRON", "0 8 * * *"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@fintrek.app"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
