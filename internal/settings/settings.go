// Package settings persists per-shop app settings as shop metafields. There
// is no local cache: every read and write round-trips through the Admin API,
// so concurrent toggles race and the last write wins.
package settings

import (
	"context"
	"fmt"

	"productai/internal/generator"
	"productai/internal/logger"
)

const (
	// Metafield namespace & key
	Namespace          = "product_ai"
	KeyAutoGenerate    = "auto_generate_enabled"
	KeyDefaultLanguage = "default_language"
)

// AdminAPI is the slice of the Shopify client the store needs.
type AdminAPI interface {
	ShopID(ctx context.Context) (string, error)
	ShopMetafield(ctx context.Context, namespace, key string) (value string, found bool, err error)
	SetShopMetafield(ctx context.Context, ownerID, namespace, key, fieldType, value string) error
}

type Store struct {
	api    AdminAPI
	logger *logger.Logger
}

func NewStore(api AdminAPI, logger *logger.Logger) *Store {
	return &Store{
		api:    api,
		logger: logger,
	}
}

// AutoGenerateEnabled reports whether webhook-triggered generation is on.
// Only the literal string "true" enables it; an absent or malformed
// metafield reads as disabled without error.
func (s *Store) AutoGenerateEnabled(ctx context.Context) (bool, error) {
	value, found, err := s.api.ShopMetafield(ctx, Namespace, KeyAutoGenerate)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return value == "true", nil
}

// SetAutoGenerateEnabled upserts the auto-generate flag.
func (s *Store) SetAutoGenerateEnabled(ctx context.Context, enabled bool) error {
	shopID, err := s.api.ShopID(ctx)
	if err != nil {
		return err
	}

	value := "false"
	if enabled {
		value = "true"
	}

	if err := s.api.SetShopMetafield(ctx, shopID, Namespace, KeyAutoGenerate, "boolean", value); err != nil {
		return err
	}

	s.logger.Info("auto-generate set to %s", value)
	return nil
}

// DefaultLanguage returns the shop's stored generation language, falling
// back to English when unset or unsupported.
func (s *Store) DefaultLanguage(ctx context.Context) (string, error) {
	value, found, err := s.api.ShopMetafield(ctx, Namespace, KeyDefaultLanguage)
	if err != nil {
		return generator.DefaultLanguage, err
	}
	if !found {
		return generator.DefaultLanguage, nil
	}
	return generator.NormalizeLanguage(value), nil
}

// SetDefaultLanguage upserts the shop's generation language. Unsupported
// languages are rejected rather than silently normalized, so the admin UI
// gets a real error instead of a surprise.
func (s *Store) SetDefaultLanguage(ctx context.Context, language string) error {
	if generator.NormalizeLanguage(language) != language {
		return fmt.Errorf("unsupported language: %q", language)
	}

	shopID, err := s.api.ShopID(ctx)
	if err != nil {
		return err
	}

	return s.api.SetShopMetafield(ctx, shopID, Namespace, KeyDefaultLanguage, "single_line_text_field", language)
}
