package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"productai/internal/generator"
	"productai/internal/logger"
	"productai/internal/shopify"
)

type ProductHandler struct {
	logger    *logger.Logger
	shops     ShopResolver
	generator *generator.Client
}

func NewProductHandler(logger *logger.Logger, shops ShopResolver, gen *generator.Client) *ProductHandler {
	return &ProductHandler{
		logger:    logger,
		shops:     shops,
		generator: gen,
	}
}

func (h *ProductHandler) client(c *gin.Context) (*shopify.Client, bool) {
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

	return shopify.NewClient(shop.Domain, shop.AccessToken, h.logger), true
}

// List fetches the first page of products for the generate page.
func (h *ProductHandler) List(c *gin.Context) {
	client, ok := h.client(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 250 {
		limit = 10
	}

	products, err := client.ListProducts(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

// Generate runs one manual generation: produce a description for the given
// title and write it to the product. Mirrors the generate-page action.
func (h *ProductHandler) Generate(c *gin.Context) {
	var request struct {
		ProductID string `json:"product_id" binding:"required"`
		Title     string `json:"title" binding:"required"`
		Language  string `json:"language"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	client, ok := h.client(c)
	if !ok {
		return
	}

	description, err := h.generator.Generate(c.Request.Context(), request.Title, request.Language)
	if err != nil {
		h.logger.Error("generation failed for %q: %v", request.Title, err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to generate description."})
		return
	}

	if err := client.UpdateDescription(c.Request.Context(), request.ProductID, description); err != nil {
		h.logger.Error("failed to update product %s: %v", request.ProductID, err)
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Failed to update product description."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "description": description})
}
