package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Fulfillment FulfillmentConfig
	Payment     PaymentConfig
	Checkout    CheckoutConfig
	Sync        SyncConfig
	S3          S3Config
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	AdminKey    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type FulfillmentConfig struct {
	APIKey  string
	StoreID string
	BaseURL string
}

type PaymentConfig struct {
	StripeSecretKey  string
	WebhookSecret    string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

type CheckoutConfig struct {
	// RequireShipping forces a shipping selection before a session is created.
	RequireShipping bool
	DefaultCurrency string
}

type SyncConfig struct {
	// Schedule is a cron expression; empty disables the scheduler.
	Schedule    string
	PageSize    int
	Concurrency int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	MirrorImages    bool
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			AdminKey:    getEnv("ADMIN_API_KEY", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "overlaymaps"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "true")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Fulfillment: FulfillmentConfig{
			APIKey:  getEnv("FULFILLMENT_API_KEY", ""),
			StoreID: getEnv("FULFILLMENT_STORE_ID", ""),
			BaseURL: getEnv("FULFILLMENT_BASE_URL", "https://api.printful.com"),
		},
		Payment: PaymentConfig{
			StripeSecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
			SuccessURL:       getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
			CancelURL:        getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/cart"),
			AllowedCountries: parseSlice(getEnv("CHECKOUT_SHIPPING_COUNTRIES", "NL,DE,BE,FR,ES,IT,GB,US,CA")),
		},
		Checkout: CheckoutConfig{
			RequireShipping: parseBool(getEnv("CHECKOUT_REQUIRE_SHIPPING", "true")),
			DefaultCurrency: getEnv("CHECKOUT_DEFAULT_CURRENCY", "EUR"),
		},
		Sync: SyncConfig{
			Schedule:    getEnv("CATALOG_SYNC_SCHEDULE", "0 4 * * *"),
			PageSize:    parseInt(getEnv("CATALOG_SYNC_PAGE_SIZE", "20"), 20),
			Concurrency: parseInt(getEnv("CATALOG_SYNC_CONCURRENCY", "5"), 5),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			MirrorImages:    parseBool(getEnv("CATALOG_MIRROR_IMAGES", "false")),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %q, using default %d", s, defaultValue)
		return defaultValue
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
