package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Shopify app credentials
	ShopifyAPIKey    string
	ShopifyAPISecret string
	ShopifyScopes    string

	// Text generation
	GeminiAPIKey string

	// Public URL the app is reachable on (OAuth redirect and webhook base)
	AppURL string

	// Optional custom shop domain override
	ShopCustomDomain string

	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Environment
	Env      string
	LogLevel string
}

// Load reads configuration from the environment (and .env when present).
// A missing required variable is a startup failure, not a runtime one.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		ShopifyAPIKey:    os.Getenv("SHOPIFY_API_KEY"),
		ShopifyAPISecret: os.Getenv("SHOPIFY_API_SECRET"),
		ShopifyScopes:    os.Getenv("SHOPIFY_SCOPES"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		AppURL:           os.Getenv("SHOPIFY_APP_URL"),
		ShopCustomDomain: os.Getenv("SHOP_CUSTOM_DOMAIN"),
		DatabaseURL:      getEnv("DATABASE_URL", "sqlite://productai.db"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:          getEnv("API_PORT", "8080"),
		APIHost:          getEnv("API_HOST", "0.0.0.0"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"SHOPIFY_API_KEY":    c.ShopifyAPIKey,
		"SHOPIFY_API_SECRET": c.ShopifyAPISecret,
		"SHOPIFY_SCOPES":     c.ShopifyScopes,
		"GEMINI_API_KEY":     c.GeminiAPIKey,
		"SHOPIFY_APP_URL":    c.AppURL,
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Scopes returns the configured OAuth scopes as a slice.
func (c *Config) Scopes() []string {
	parts := strings.Split(c.ShopifyScopes, ",")
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
