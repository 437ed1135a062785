package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"productai/internal/config"
	"productai/internal/generator"
	"productai/internal/logger"
	"productai/internal/pipeline"
	"productai/internal/settings"
	"productai/internal/shopify"
)

type processor interface {
	Process(ctx context.Context, d pipeline.Delivery, svc pipeline.ShopServices) (pipeline.Outcome, error)
}

type WebhookHandler struct {
	config    *config.Config
	logger    *logger.Logger
	shops     ShopResolver
	generator *generator.Client
	pipeline  processor
}

func NewWebhookHandler(cfg *config.Config, logger *logger.Logger, shops ShopResolver, gen *generator.Client, pipe processor) *WebhookHandler {
	return &WebhookHandler{
		config:    cfg,
		logger:    logger,
		shops:     shops,
		generator: gen,
		pipeline:  pipe,
	}
}

type productCreatePayload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ProductsCreate handles POST /webhooks/products/create. Pipeline failures
// are logged and answered with 200 anyway: a non-2xx would make Shopify
// redeliver, and a failing generation does not get better on retry.
func (h *WebhookHandler) ProductsCreate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Error("failed to read webhook payload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read payload"})
		return
	}

	if !shopify.VerifyWebhookHMAC(h.config.ShopifyAPISecret, body, c.GetHeader(shopify.HeaderWebhookHmac)) {
		h.logger.Warn("webhook with invalid signature rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
		return
	}

	shopDomain := c.GetHeader(shopify.HeaderWebhookShop)
	if shopDomain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing shop domain header"})
		return
	}

	var payload productCreatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	shop, err := h.shops.ShopByDomain(shopDomain)
	if err != nil {
		// Unknown shop: nothing we can do, and a retry loop helps nobody.
		h.logger.Error("webhook for unknown shop %s: %v", shopDomain, err)
		c.JSON(http.StatusOK, gin.H{"message": "shop not installed"})
		return
	}

	client := shopify.NewClient(shop.Domain, shop.AccessToken, h.logger)
	delivery := pipeline.Delivery{
		DeliveryID: c.GetHeader(shopify.HeaderWebhookID),
		ShopDomain: shopDomain,
		Topic:      c.GetHeader(shopify.HeaderWebhookTopic),
		ProductID:  fmt.Sprintf("gid://shopify/Product/%d", payload.ID),
		NumericID:  payload.ID,
		Title:      payload.Title,
	}
	services := pipeline.ShopServices{
		Settings:  settings.NewStore(client, h.logger),
		Generator: h.generator,
		Updater:   client,
	}

	outcome, err := h.pipeline.Process(c.Request.Context(), delivery, services)
	if err != nil {
		h.logger.Error("webhook processing failed for product %d: %v", payload.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"status": string(outcome)})
}
