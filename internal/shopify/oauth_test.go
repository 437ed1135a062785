package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productai/internal/config"
	"productai/internal/logger"
)

func oauthConfig() *config.Config {
	return &config.Config{
		ShopifyAPIKey:    "client-id",
		ShopifyAPISecret: "client-secret",
		ShopifyScopes:    "read_products,write_products",
		AppURL:           "https://app.example.com",
	}
}

func TestAuthorizeURL(t *testing.T) {
	service := NewOAuthService(oauthConfig(), logger.New("error"))

	authURL, state, err := service.AuthorizeURL("my-store.myshopify.com", "https://app.example.com/api/v1/shopify/callback")
	require.NoError(t, err)
	assert.Len(t, state, 64)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	assert.Equal(t, "my-store.myshopify.com", parsed.Host)
	assert.Equal(t, "/admin/oauth/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "read_products,write_products", query.Get("scope"))
	assert.Equal(t, "https://app.example.com/api/v1/shopify/callback", query.Get("redirect_uri"))
	assert.Equal(t, state, query.Get("state"))
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "abc123", r.PostForm.Get("code"))

		w.Write([]byte(`{"access_token":"shpat_xyz","scope":"read_products,write_products"}`))
	}))
	defer server.Close()

	service := NewOAuthService(oauthConfig(), logger.New("error"))
	service.tokenURL = server.URL

	token, err := service.ExchangeCode(context.Background(), "my-store.myshopify.com", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "shpat_xyz", token.AccessToken)
	assert.Equal(t, "read_products,write_products", token.Scope)
}

func TestExchangeCodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	service := NewOAuthService(oauthConfig(), logger.New("error"))
	service.tokenURL = server.URL

	_, err := service.ExchangeCode(context.Background(), "my-store.myshopify.com", "bad")
	assert.Error(t, err)
}
