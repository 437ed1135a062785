package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SHOPIFY_API_KEY", "key")
	t.Setenv("SHOPIFY_API_SECRET", "secret")
	t.Setenv("SHOPIFY_SCOPES", "read_products, write_products")
	t.Setenv("GEMINI_API_KEY", "gemini")
	t.Setenv("SHOPIFY_APP_URL", "https://app.example.com")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.ShopifyAPIKey)
	assert.Equal(t, "https://app.example.com", cfg.AppURL)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SHOPIFY_API_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "SHOPIFY_API_SECRET")
}

func TestScopes(t *testing.T) {
	cfg := &Config{ShopifyScopes: "read_products, write_products,,read_shop "}
	assert.Equal(t, []string{"read_products", "write_products", "read_shop"}, cfg.Scopes())
}
