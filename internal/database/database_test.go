package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productai/internal/models"
)

func testDB(t *testing.T) *Database {
	t.Helper()
	db, err := New("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMarkDeliveryProcessedDedup(t *testing.T) {
	db := testDB(t)

	fresh, err := db.MarkDeliveryProcessed("delivery-1", "my-store.myshopify.com", "products/create")
	require.NoError(t, err)
	assert.True(t, fresh)

	// replayed delivery
	fresh, err = db.MarkDeliveryProcessed("delivery-1", "my-store.myshopify.com", "products/create")
	require.NoError(t, err)
	assert.False(t, fresh)

	// different delivery passes
	fresh, err = db.MarkDeliveryProcessed("delivery-2", "my-store.myshopify.com", "products/create")
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestUpsertShop(t *testing.T) {
	db := testDB(t)

	shop := &models.Shop{
		Domain:      "my-store.myshopify.com",
		AccessToken: "token-1",
		Scope:       "read_products",
		InstalledAt: time.Now().UTC(),
	}
	require.NoError(t, db.UpsertShop(shop))
	firstID := shop.ID
	require.NotEmpty(t, firstID)

	// Reinstall replaces the token but keeps the row
	reinstalled := &models.Shop{
		Domain:      "my-store.myshopify.com",
		AccessToken: "token-2",
		Scope:       "read_products,write_products",
		InstalledAt: time.Now().UTC(),
	}
	require.NoError(t, db.UpsertShop(reinstalled))
	assert.Equal(t, firstID, reinstalled.ID)

	stored, err := db.ShopByDomain("my-store.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "token-2", stored.AccessToken)
}

func TestShopByDomainMissing(t *testing.T) {
	db := testDB(t)

	_, err := db.ShopByDomain("unknown.myshopify.com")
	assert.Error(t, err)
}

func TestSaveGenerationEvent(t *testing.T) {
	db := testDB(t)

	event := &models.GenerationEvent{
		ShopDomain: "my-store.myshopify.com",
		ProductID:  123,
		Title:      "Blue Mug",
		Language:   "French",
		Status:     models.GenerationStatusUpdated,
		OccurredAt: time.Now().UTC(),
	}
	require.NoError(t, db.SaveGenerationEvent(event))
	assert.NotEmpty(t, event.ID)

	var count int64
	require.NoError(t, db.DB.Model(&models.GenerationEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
