package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"productai/internal/generator"
	"productai/internal/logger"
	"productai/internal/models"
	"productai/internal/settings"
	"productai/internal/shopify"
)

// SettingsStore is the per-shop settings surface the handler needs.
type SettingsStore interface {
	AutoGenerateEnabled(ctx context.Context) (bool, error)
	SetAutoGenerateEnabled(ctx context.Context, enabled bool) error
	DefaultLanguage(ctx context.Context) (string, error)
	SetDefaultLanguage(ctx context.Context, language string) error
}

// StoreFactory builds the settings store for a resolved shop session.
type StoreFactory func(shop *models.Shop) SettingsStore

// DefaultStoreFactory wires the real metafield-backed store.
func DefaultStoreFactory(logger *logger.Logger) StoreFactory {
	return func(shop *models.Shop) SettingsStore {
		client := shopify.NewClient(shop.Domain, shop.AccessToken, logger)
		return settings.NewStore(client, logger)
	}
}

type SettingsHandler struct {
	logger   *logger.Logger
	shops    ShopResolver
	storeFor StoreFactory
}

func NewSettingsHandler(logger *logger.Logger, shops ShopResolver, storeFor StoreFactory) *SettingsHandler {
	return &SettingsHandler{
		logger:   logger,
		shops:    shops,
		storeFor: storeFor,
	}
}

func (h *SettingsHandler) store(c *gin.Context) (SettingsStore, bool) {
	shopDomain := c.Query("shop")
	if shopDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing shop parameter"})
		return nil, false
	}

	shop, err := h.shops.ShopByDomain(shopDomain)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shop not installed"})
		return nil, false
	}

	return h.storeFor(shop), true
}

// Get reads the settings for the settings page. A metafield read failure
// renders the default disabled state with a visible error rather than a 500,
// so the page still loads.
func (h *SettingsHandler) Get(c *gin.Context) {
	store, ok := h.store(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	enabled, err := store.AutoGenerateEnabled(ctx)
	if err != nil {
		h.logger.Error("failed to read settings: %v", err)
		c.JSON(http.StatusOK, gin.H{
			"enabled":          false,
			"default_language": generator.DefaultLanguage,
			"error":            "Failed to load settings; showing defaults.",
		})
		return
	}

	language, err := store.DefaultLanguage(ctx)
	if err != nil {
		h.logger.Warn("failed to read default language: %v", err)
		language = generator.DefaultLanguage
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":          enabled,
		"default_language": language,
	})
}

// Update toggles auto-generation and, optionally, the default language.
func (h *SettingsHandler) Update(c *gin.Context) {
	var request struct {
		Enabled         *bool   `json:"enabled"`
		DefaultLanguage *string `json:"default_language"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if request.Enabled == nil && request.DefaultLanguage == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "nothing to update"})
		return
	}

	store, ok := h.store(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if request.Enabled != nil {
		if err := store.SetAutoGenerateEnabled(ctx, *request.Enabled); err != nil {
			h.logger.Error("failed to update auto-generate flag: %v", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "error": settingsError(err)})
			return
		}
	}

	if request.DefaultLanguage != nil {
		if generator.NormalizeLanguage(*request.DefaultLanguage) != *request.DefaultLanguage {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unsupported language."})
			return
		}
		if err := store.SetDefaultLanguage(ctx, *request.DefaultLanguage); err != nil {
			h.logger.Error("failed to update default language: %v", err)
			c.JSON(http.StatusOK, gin.H{"success": false, "error": settingsError(err)})
			return
		}
	}

	response := gin.H{"success": true}
	if request.Enabled != nil {
		response["enabled"] = *request.Enabled
	}
	c.JSON(http.StatusOK, response)
}

// settingsError keeps upstream user errors readable and hides the rest.
func settingsError(err error) string {
	var userErr *shopify.UserError
	switch {
	case errors.As(err, &userErr):
		return userErr.Message
	case errors.Is(err, shopify.ErrShopNotFound):
		return "Shop ID not found."
	default:
		return "Failed to update settings."
	}
}
