package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookHMAC(t *testing.T) {
	body := []byte(`{"id":123,"title":"Blue Mug"}`)
	secret := "shhh"

	assert.True(t, VerifyWebhookHMAC(secret, body, sign(secret, body)))
	assert.True(t, VerifyWebhookHMAC(secret, body, sign(secret, body)+"\n"))

	assert.False(t, VerifyWebhookHMAC(secret, body, sign("other", body)))
	assert.False(t, VerifyWebhookHMAC(secret, []byte(`{"id":124}`), sign(secret, body)))
	assert.False(t, VerifyWebhookHMAC(secret, body, ""))
	assert.False(t, VerifyWebhookHMAC("", body, sign(secret, body)))
}
