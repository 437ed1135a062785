package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookDelivery records a processed webhook delivery ID. Shopify delivers
// at least once; the unique index on DeliveryID is what makes replays no-ops.
type WebhookDelivery struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	DeliveryID string    `json:"delivery_id" gorm:"uniqueIndex;not null"`
	ShopDomain string    `json:"shop_domain" gorm:"index"`
	Topic      string    `json:"topic"`
	CreatedAt  time.Time `json:"created_at"`
}

func (d *WebhookDelivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
