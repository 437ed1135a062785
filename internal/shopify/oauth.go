package shopify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"productai/internal/config"
	"productai/internal/logger"
)

type OAuthService struct {
	config     *config.Config
	logger     *logger.Logger
	httpClient *http.Client

	// tokenURL overrides the shop token endpoint, used by tests.
	tokenURL string
}

func NewOAuthService(cfg *config.Config, logger *logger.Logger) *OAuthService {
	return &OAuthService{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// AuthorizeURL builds the Shopify OAuth authorization URL and the state
// parameter the callback must echo back.
func (s *OAuthService) AuthorizeURL(shopDomain, redirectURI string) (string, string, error) {
	state, err := s.generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	cleanDomain := strings.TrimSuffix(shopDomain, ".myshopify.com")

	params := url.Values{}
	params.Set("client_id", s.config.ShopifyAPIKey)
	params.Set("scope", strings.Join(s.config.Scopes(), ","))
	params.Set("redirect_uri", redirectURI)
	params.Set("state", state)

	authURL := fmt.Sprintf("https://%s.myshopify.com/admin/oauth/authorize?%s", cleanDomain, params.Encode())
	return authURL, state, nil
}

// ExchangeCode trades the authorization code for a permanent access token.
func (s *OAuthService) ExchangeCode(ctx context.Context, shopDomain, code string) (*TokenResponse, error) {
	tokenURL := s.tokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://%s/admin/oauth/access_token", shopDomain)
	}

	data := url.Values{}
	data.Set("client_id", s.config.ShopifyAPIKey)
	data.Set("client_secret", s.config.ShopifyAPISecret)
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: %d - %s", resp.StatusCode, string(body))
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned empty access token")
	}

	return &tokenResp, nil
}

func (s *OAuthService) generateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
