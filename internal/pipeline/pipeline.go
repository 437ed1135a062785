// Package pipeline runs the webhook-triggered generation flow: dedup the
// delivery, read the shop's settings, generate a description, write it back.
// Every remote call is best-effort and single-attempt.
package pipeline

import (
	"context"
	"time"

	"productai/internal/logger"
	"productai/internal/models"
)

// Outcome is the terminal state of one processed delivery.
type Outcome = models.GenerationStatus

// SettingsReader reads the shop's auto-generate flag and language.
type SettingsReader interface {
	AutoGenerateEnabled(ctx context.Context) (bool, error)
	DefaultLanguage(ctx context.Context) (string, error)
}

// Generator produces a description for a product title.
type Generator interface {
	Generate(ctx context.Context, title, language string) (string, error)
}

// ProductUpdater writes a product's description.
type ProductUpdater interface {
	UpdateDescription(ctx context.Context, productID, descriptionHTML string) error
}

// DeliveryStore dedups webhook deliveries. MarkProcessed returns false when
// the delivery ID was seen before.
type DeliveryStore interface {
	MarkDeliveryProcessed(deliveryID, shopDomain, topic string) (bool, error)
}

// EventPublisher emits the audit event for each outcome.
type EventPublisher interface {
	Publish(ctx context.Context, event models.GenerationEvent) error
}

// Delivery is one verified products/create webhook delivery.
type Delivery struct {
	DeliveryID string
	ShopDomain string
	Topic      string
	ProductID  string // product GID, e.g. gid://shopify/Product/123
	NumericID  int64
	Title      string
}

type Pipeline struct {
	deliveries DeliveryStore
	publisher  EventPublisher
	logger     *logger.Logger
}

func New(deliveries DeliveryStore, publisher EventPublisher, logger *logger.Logger) *Pipeline {
	return &Pipeline{
		deliveries: deliveries,
		publisher:  publisher,
		logger:     logger,
	}
}

// ShopServices bundles the per-shop collaborators, constructed from the
// shop's stored session by the caller.
type ShopServices struct {
	Settings  SettingsReader
	Generator Generator
	Updater   ProductUpdater
}

// Process runs one delivery to a terminal state. The returned error reports
// what went wrong for logging; callers on the webhook path must still answer
// success so Shopify does not retry-storm.
func (p *Pipeline) Process(ctx context.Context, d Delivery, svc ShopServices) (Outcome, error) {
	if d.DeliveryID != "" {
		fresh, err := p.deliveries.MarkDeliveryProcessed(d.DeliveryID, d.ShopDomain, d.Topic)
		if err != nil {
			// Dedup store trouble must not block generation.
			p.logger.Error("delivery dedup check failed: %v", err)
		} else if !fresh {
			p.logger.Info("duplicate delivery %s for shop %s, skipping", d.DeliveryID, d.ShopDomain)
			p.emit(ctx, d, models.GenerationStatusDuplicate, "", nil)
			return models.GenerationStatusDuplicate, nil
		}
	}

	enabled, err := svc.Settings.AutoGenerateEnabled(ctx)
	if err != nil {
		p.emit(ctx, d, models.GenerationStatusFailed, "", err)
		return models.GenerationStatusFailed, err
	}

	if !enabled {
		p.logger.Info("auto-generation disabled for shop %s", d.ShopDomain)
		p.emit(ctx, d, models.GenerationStatusSkipped, "", nil)
		return models.GenerationStatusSkipped, nil
	}

	language, err := svc.Settings.DefaultLanguage(ctx)
	if err != nil {
		// Language read failure falls back to the default; generation
		// still proceeds.
		p.logger.Warn("failed to read default language for %s: %v", d.ShopDomain, err)
	}

	description, err := svc.Generator.Generate(ctx, d.Title, language)
	if err != nil {
		p.emit(ctx, d, models.GenerationStatusFailed, language, err)
		return models.GenerationStatusFailed, err
	}

	if err := svc.Updater.UpdateDescription(ctx, d.ProductID, description); err != nil {
		p.emit(ctx, d, models.GenerationStatusFailed, language, err)
		return models.GenerationStatusFailed, err
	}

	p.logger.Info("description updated for product %s (shop %s)", d.ProductID, d.ShopDomain)
	p.emit(ctx, d, models.GenerationStatusUpdated, language, nil)
	return models.GenerationStatusUpdated, nil
}

func (p *Pipeline) emit(ctx context.Context, d Delivery, status models.GenerationStatus, language string, cause error) {
	if p.publisher == nil {
		return
	}

	event := models.GenerationEvent{
		ShopDomain: d.ShopDomain,
		ProductID:  d.NumericID,
		Title:      d.Title,
		Language:   language,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Error("failed to publish generation event: %v", err)
	}
}
