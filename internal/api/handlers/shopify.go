package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"productai/internal/config"
	"productai/internal/database"
	"productai/internal/logger"
	"productai/internal/models"
	"productai/internal/shopify"
)

type ShopifyHandler struct {
	db           *database.Database
	logger       *logger.Logger
	config       *config.Config
	oauthService *shopify.OAuthService
}

func NewShopifyHandler(db *database.Database, logger *logger.Logger, cfg *config.Config) *ShopifyHandler {
	return &ShopifyHandler{
		db:           db,
		logger:       logger,
		config:       cfg,
		oauthService: shopify.NewOAuthService(cfg, logger),
	}
}

// Install initiates the Shopify OAuth flow.
func (h *ShopifyHandler) Install(c *gin.Context) {
	var request struct {
		ShopDomain  string `json:"shop_domain" binding:"required"`
		RedirectURI string `json:"redirect_uri"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	redirectURI := request.RedirectURI
	if redirectURI == "" {
		redirectURI = h.config.AppURL + "/api/v1/shopify/callback"
	}

	authURL, state, err := h.oauthService.AuthorizeURL(request.ShopDomain, redirectURI)
	if err != nil {
		h.logger.Error("failed to generate auth URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authorization URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
		"message":  "Redirect user to the auth_url to complete OAuth flow",
	})
}

// Callback handles the OAuth callback: exchange the code, persist the
// session, then register the products/create webhook for that shop.
func (h *ShopifyHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	shopDomain := c.Query("shop")

	if code == "" || state == "" || shopDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	tokenResp, err := h.oauthService.ExchangeCode(c.Request.Context(), shopDomain, code)
	if err != nil {
		h.logger.Error("failed to exchange code for token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	shop := &models.Shop{
		Domain:      shopDomain,
		AccessToken: tokenResp.AccessToken,
		Scope:       tokenResp.Scope,
		InstalledAt: time.Now().UTC(),
	}
	if err := h.db.UpsertShop(shop); err != nil {
		h.logger.Error("failed to save shop: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save shop"})
		return
	}

	// Webhook registration failure is not fatal to the install; the
	// settings page documents how to create it manually.
	client := shopify.NewClient(shopDomain, tokenResp.AccessToken, h.logger)
	callbackURL := h.config.AppURL + "/webhooks/products/create"
	if err := client.RegisterProductCreateWebhook(c.Request.Context(), callbackURL); err != nil {
		h.logger.Error("failed to register products/create webhook for %s: %v", shopDomain, err)
	} else {
		h.logger.Info("registered products/create webhook for %s", shopDomain)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Shop connected successfully",
		"shop_domain": shopDomain,
	})
}

// RegisterWebhooks re-registers the products/create webhook for an already
// installed shop, for merchants who skipped it at install time.
func (h *ShopifyHandler) RegisterWebhooks(c *gin.Context) {
	shopDomain := c.Query("shop")
	if shopDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing shop parameter"})
		return
	}

	shop, err := h.db.ShopByDomain(shopDomain)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shop not installed"})
		return
	}

	client := shopify.NewClient(shop.Domain, shop.AccessToken, h.logger)
	callbackURL := h.config.AppURL + "/webhooks/products/create"
	if err := client.RegisterProductCreateWebhook(c.Request.Context(), callbackURL); err != nil {
		h.logger.Error("failed to register webhook for %s: %v", shopDomain, err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to register webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "callback_url": callbackURL})
}
