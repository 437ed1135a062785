// Package worker drains the generation-events topic into the database so
// webhook outcomes (including swallowed failures) stay queryable.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"productai/internal/config"
	"productai/internal/database"
	"productai/internal/events"
	"productai/internal/logger"
	"productai/internal/models"
)

type Worker struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	reader *kafka.Reader
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(cfg.KafkaBrokers, ","),
		GroupID:        "productai-worker",
		Topic:          events.Topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		db:     db,
		reader: reader,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for generation events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event models.GenerationEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		// The producer side never sets the row ID; a fresh one is
		// assigned on insert.
		event.ID = ""
		if err := w.db.SaveGenerationEvent(&event); err != nil {
			w.logger.Error("Failed to store event for shop %s: %v", event.ShopDomain, err)
			continue
		}

		w.logger.Debug("Stored %s event for product %d (shop %s)", event.Status, event.ProductID, event.ShopDomain)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
