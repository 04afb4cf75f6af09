package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"erp-service/internal/broker"
	"erp-service/internal/errs"
	"erp-service/internal/models"
	"erp-service/internal/store"
	"erp-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StockAlertWorker consumes order and stock events and raises a low-stock
// alert when an affected product drops to its reorder threshold
type StockAlertWorker struct {
	consumer       *broker.Consumer
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewStockAlertWorker creates a new stock alert worker
func NewStockAlertWorker(
	consumer *broker.Consumer,
	store *store.Store,
	eventPublisher *broker.EventPublisher,
) *StockAlertWorker {
	return &StockAlertWorker{
		consumer:       consumer,
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// Start starts the worker
func (w *StockAlertWorker) Start(ctx context.Context) error {
	log.Println("Starting stock alert worker...")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *StockAlertWorker) Stop() error {
	log.Println("Stopping stock alert worker...")
	return w.consumer.Close()
}

func (w *StockAlertWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		w.logger.Error("Failed to unmarshal event", zap.Error(err))
		return err
	}

	switch baseEvent.EventType {
	case models.EventTypeSaleCreated, models.EventTypePurchaseCreated:
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		for _, line := range event.Lines {
			if err := w.checkProduct(ctx, line.ProductID); err != nil {
				return err
			}
		}

	case models.EventTypeStockAdjusted:
		var event models.StockAdjustedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		return w.checkProduct(ctx, event.ProductID)
	}

	return nil
}

// checkProduct publishes a low-stock alert if the product is at or under its
// reorder threshold. A product deleted since the event was written is skipped.
func (w *StockAlertWorker) checkProduct(ctx context.Context, productID int64) error {
	product, err := w.store.GetProductByID(ctx, productID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil
		}
		return err
	}

	if product.OnHand > product.ReorderThreshold {
		return nil
	}

	alert := &models.LowStockAlertEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeLowStockAlert,
			Timestamp: time.Now(),
		},
		ProductID:        product.ID,
		ProductName:      product.Name,
		OnHand:           product.OnHand,
		ReorderThreshold: product.ReorderThreshold,
	}

	if err := w.eventPublisher.PublishLowStockAlert(ctx, alert); err != nil {
		w.logger.Error("Failed to publish LowStockAlert event",
			zap.Int64("product_id", product.ID), zap.Error(err))
		return err
	}

	util.LowStockAlertsTotal.Inc()
	w.logger.Warn("Low stock alert",
		zap.Int64("product_id", product.ID),
		zap.String("product", product.Name),
		zap.Int("on_hand", product.OnHand),
		zap.Int("reorder_threshold", product.ReorderThreshold))

	return nil
}
