package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerationEvent is the audit record for one webhook-triggered generation
// attempt. The webhook path always answers 200, so these rows are the only
// place failures surface.
type GenerationEvent struct {
	ID         string           `json:"id" gorm:"type:uuid;primary_key"`
	ShopDomain string           `json:"shop_domain" gorm:"index"`
	ProductID  int64            `json:"product_id"`
	Title      string           `json:"title"`
	Language   string           `json:"language"`
	Status     GenerationStatus `json:"status" gorm:"not null"`
	Error      string           `json:"error,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
	CreatedAt  time.Time        `json:"created_at"`
}

type GenerationStatus string

const (
	GenerationStatusSkipped   GenerationStatus = "SKIPPED"
	GenerationStatusDuplicate GenerationStatus = "DUPLICATE"
	GenerationStatusUpdated   GenerationStatus = "UPDATED"
	GenerationStatusFailed    GenerationStatus = "FAILED"
)

func (e *GenerationEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
