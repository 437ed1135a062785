package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop holds the OAuth session for an installed store. One row per shop
// domain; reinstalling overwrites the token.
type Shop struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	Domain      string    `json:"domain" gorm:"uniqueIndex;not null"`
	AccessToken string    `json:"-" gorm:"not null"`
	Scope       string    `json:"scope"`
	InstalledAt time.Time `json:"installed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
