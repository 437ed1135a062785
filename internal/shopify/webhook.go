package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Webhook request headers set by Shopify.
const (
	HeaderWebhookTopic = "X-Shopify-Topic"
	HeaderWebhookShop  = "X-Shopify-Shop-Domain"
	HeaderWebhookHmac  = "X-Shopify-Hmac-Sha256"
	HeaderWebhookID    = "X-Shopify-Webhook-Id"
)

// VerifyWebhookHMAC checks the signature Shopify computed over the raw
// request body against the app secret.
func VerifyWebhookHMAC(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	// constant-time compare
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(header)))
}
