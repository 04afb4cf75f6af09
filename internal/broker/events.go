package broker

import (
	"context"
	"fmt"

	"erp-service/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	orders *Producer
	alerts *Producer
}

// NewEventPublisher creates a new event publisher. Order events and stock
// alerts go to separate topics.
func NewEventPublisher(orders, alerts *Producer) *EventPublisher {
	return &EventPublisher{orders: orders, alerts: alerts}
}

// PublishOrderCreated publishes an OrderCreated event after a sale or
// purchase commits
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("%s-%d", event.Kind, event.OrderID)
	return ep.orders.PublishEvent(ctx, key, event)
}

// PublishStockAdjusted publishes a StockAdjusted event after a manual movement
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.orders.PublishEvent(ctx, key, event)
}

// PublishLowStockAlert publishes a LowStockAlert event
func (ep *EventPublisher) PublishLowStockAlert(ctx context.Context, event *models.LowStockAlertEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.alerts.PublishEvent(ctx, key, event)
}
