package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"productai/internal/models"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Shop{},
		&models.WebhookDelivery{},
		&models.GenerationEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertShop stores or refreshes the OAuth session for a shop domain.
func (d *Database) UpsertShop(shop *models.Shop) error {
	var existing models.Shop
	err := d.DB.Where("domain = ?", shop.Domain).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return d.DB.Create(shop).Error
	}
	if err != nil {
		return err
	}

	shop.ID = existing.ID
	shop.CreatedAt = existing.CreatedAt
	return d.DB.Save(shop).Error
}

// ShopByDomain resolves an installed shop's session record.
func (d *Database) ShopByDomain(domain string) (*models.Shop, error) {
	var shop models.Shop
	if err := d.DB.Where("domain = ?", domain).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// MarkDeliveryProcessed inserts a delivery ID and reports whether it was new.
// The unique index decides the race: a concurrent duplicate insert loses and
// is reported as already processed.
func (d *Database) MarkDeliveryProcessed(deliveryID, shopDomain, topic string) (bool, error) {
	delivery := &models.WebhookDelivery{
		DeliveryID: deliveryID,
		ShopDomain: shopDomain,
		Topic:      topic,
	}

	err := d.DB.Create(delivery).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveGenerationEvent persists one audit record.
func (d *Database) SaveGenerationEvent(event *models.GenerationEvent) error {
	return d.DB.Create(event).Error
}
