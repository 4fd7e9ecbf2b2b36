package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string

	// Auth configuration
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	AdminEmail    string

	// OTP configuration
	OTPExpireMinutes int
	RateLimitMinutes int

	// Merchant (KHQR) configuration
	BakongAccountID string
	MerchantName    string
	MerchantCity    string
	AcquiringBank   string
	StoreLabel      string
	TerminalLabel   string

	// Payment configuration
	Currency             string
	PaymentExpireSeconds int
	SettlementDelay      int // seconds the simulated probe waits before confirming

	// Upload configuration
	UploadDir string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "debug"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		BrevoAPIKey:          getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:       getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:        getEnv("BREVO_FROM_NAME", "Khmer Download"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-me"),
		AdminUsername:        getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", "admin123"),
		AdminEmail:           getEnv("ADMIN_EMAIL", "admin@khmerdownload.com"),
		OTPExpireMinutes:     getEnvInt("OTP_EXPIRE_MINUTES", 10),
		RateLimitMinutes:     getEnvInt("RATE_LIMIT_MINUTES", 1),
		BakongAccountID:      getEnv("BAKONG_ACCOUNT_ID", ""),
		MerchantName:         getEnv("MERCHANT_NAME", ""),
		MerchantCity:         getEnv("MERCHANT_CITY", "Phnom Penh"),
		AcquiringBank:        getEnv("ACQUIRING_BANK", "Bakong"),
		StoreLabel:           getEnv("STORE_LABEL", "Khmer Download"),
		TerminalLabel:        getEnv("TERMINAL_LABEL", "Web Store"),
		Currency:             getEnv("PAYMENT_CURRENCY", "USD"),
		PaymentExpireSeconds: getEnvInt("PAYMENT_EXPIRE_SECONDS", 120),
		SettlementDelay:      getEnvInt("SETTLEMENT_DELAY_SECONDS", 3),
		UploadDir:            getEnv("UPLOAD_DIR", "uploads"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
