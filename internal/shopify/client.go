package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"productai/internal/logger"
)

const apiVersion = "2025-01"

// ErrShopNotFound is returned when the Admin API cannot resolve the shop's
// own ID, which should only happen with a revoked or mis-scoped token.
var ErrShopNotFound = errors.New("shop id not found")

// UserError carries the first user-facing message a mutation reported.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// Client talks to the Shopify Admin GraphQL API for a single shop session.
// Query payloads are always sent as variables, never interpolated into the
// query text, so titles and descriptions need no escaping here.
type Client struct {
	shopDomain  string
	accessToken string
	baseURL     string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(shopDomain, accessToken string, logger *logger.Logger) *Client {
	return &Client{
		shopDomain:  shopDomain,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the Admin API endpoint, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Product is the slice of a Shopify product this app cares about.
type Product struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

func (c *Client) endpoint() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	domain := c.shopDomain
	if !strings.Contains(domain, ".") {
		domain += ".myshopify.com"
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", domain, apiVersion)
}

// do executes one GraphQL call and decodes the "data" object into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode data: %w", err)
		}
	}

	return nil
}

// ListProducts fetches up to limit products. First page only; ordering is
// whatever the Admin API returns.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	query := `query ListProducts($first: Int!) {
		products(first: $first) {
			edges {
				node {
					id
					title
					descriptionHtml
				}
			}
		}
	}`

	var data struct {
		Products struct {
			Edges []struct {
				Node Product `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	if err := c.do(ctx, query, map[string]interface{}{"first": limit}, &data); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		products = append(products, edge.Node)
	}
	return products, nil
}

// UpdateDescription fully replaces a product's descriptionHtml.
func (c *Client) UpdateDescription(ctx context.Context, productID, descriptionHTML string) error {
	query := `mutation UpdateDescription($input: ProductInput!) {
		productUpdate(input: $input) {
			product { id }
			userErrors { field message }
		}
	}`

	variables := map[string]interface{}{
		"input": map[string]interface{}{
			"id":              productID,
			"descriptionHtml": descriptionHTML,
		},
	}

	var data struct {
		ProductUpdate struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"productUpdate"`
	}

	if err := c.do(ctx, query, variables, &data); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if len(data.ProductUpdate.UserErrors) > 0 {
		return &UserError{Message: data.ProductUpdate.UserErrors[0].Message}
	}

	return nil
}

// ShopID resolves the shop's own GraphQL ID, needed as metafield owner.
func (c *Client) ShopID(ctx context.Context) (string, error) {
	var data struct {
		Shop struct {
			ID string `json:"id"`
		} `json:"shop"`
	}

	if err := c.do(ctx, `{ shop { id } }`, nil, &data); err != nil {
		return "", fmt.Errorf("failed to query shop id: %w", err)
	}

	if data.Shop.ID == "" {
		return "", ErrShopNotFound
	}
	return data.Shop.ID, nil
}

// ShopMetafield reads a shop-scoped metafield value. Absence is not an error;
// found reports whether the metafield exists.
func (c *Client) ShopMetafield(ctx context.Context, namespace, key string) (value string, found bool, err error) {
	query := `query ShopMetafield($namespace: String!, $key: String!) {
		shop {
			metafield(namespace: $namespace, key: $key) {
				value
			}
		}
	}`

	var data struct {
		Shop struct {
			Metafield *struct {
				Value string `json:"value"`
			} `json:"metafield"`
		} `json:"shop"`
	}

	variables := map[string]interface{}{"namespace": namespace, "key": key}
	if err := c.do(ctx, query, variables, &data); err != nil {
		return "", false, fmt.Errorf("failed to read metafield: %w", err)
	}

	if data.Shop.Metafield == nil {
		return "", false, nil
	}
	return data.Shop.Metafield.Value, true, nil
}

// SetShopMetafield upserts a shop-scoped metafield.
func (c *Client) SetShopMetafield(ctx context.Context, ownerID, namespace, key, fieldType, value string) error {
	query := `mutation SetShopMetafield($metafields: [MetafieldsSetInput!]!) {
		metafieldsSet(metafields: $metafields) {
			metafields { id value }
			userErrors { field message }
		}
	}`

	variables := map[string]interface{}{
		"metafields": []map[string]interface{}{
			{
				"ownerId":   ownerID,
				"namespace": namespace,
				"key":       key,
				"type":      fieldType,
				"value":     value,
			},
		},
	}

	var data struct {
		MetafieldsSet struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"metafieldsSet"`
	}

	if err := c.do(ctx, query, variables, &data); err != nil {
		return fmt.Errorf("failed to set metafield: %w", err)
	}

	if len(data.MetafieldsSet.UserErrors) > 0 {
		return &UserError{Message: data.MetafieldsSet.UserErrors[0].Message}
	}

	return nil
}

// RegisterProductCreateWebhook subscribes the shop to products/create
// deliveries pointing at this app's webhook endpoint. An already-taken
// address is reported by Shopify as a user error and treated as success.
func (c *Client) RegisterProductCreateWebhook(ctx context.Context, callbackURL string) error {
	query := `mutation RegisterWebhook($topic: WebhookSubscriptionTopic!, $webhookSubscription: WebhookSubscriptionInput!) {
		webhookSubscriptionCreate(topic: $topic, webhookSubscription: $webhookSubscription) {
			webhookSubscription { id }
			userErrors { field message }
		}
	}`

	variables := map[string]interface{}{
		"topic": "PRODUCTS_CREATE",
		"webhookSubscription": map[string]interface{}{
			"callbackUrl": callbackURL,
			"format":      "JSON",
		},
	}

	var data struct {
		WebhookSubscriptionCreate struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"webhookSubscriptionCreate"`
	}

	if err := c.do(ctx, query, variables, &data); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}

	for _, ue := range data.WebhookSubscriptionCreate.UserErrors {
		if strings.Contains(strings.ToLower(ue.Message), "already") {
			c.logger.Debug("webhook already registered for %s", c.shopDomain)
			return nil
		}
		return &UserError{Message: ue.Message}
	}

	return nil
}
