package handlers

import (
	"productai/internal/models"
)

// ShopResolver looks up an installed shop's session. *database.Database
// satisfies it; tests substitute an in-memory map.
type ShopResolver interface {
	ShopByDomain(domain string) (*models.Shop, error)
}
