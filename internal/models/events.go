package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleCreated     = "SALE_CREATED"
	EventTypePurchaseCreated = "PURCHASE_CREATED"
	EventTypeStockAdjusted   = "STOCK_ADJUSTED"
	EventTypeLowStockAlert   = "LOW_STOCK_ALERT"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderLineData represents line data carried in order events
type OrderLineData struct {
	ProductID int64           `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreatedEvent published after a sale or purchase commits.
// Kind is "sale" or "purchase".
type OrderCreatedEvent struct {
	BaseEvent
	Kind    string          `json:"kind"`
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
	Lines   []OrderLineData `json:"lines"`
}

// StockAdjustedEvent published after a manual stock movement commits
type StockAdjustedEvent struct {
	BaseEvent
	MovementID int64           `json:"movement_id"`
	ProductID  int64           `json:"product_id"`
	Direction  string          `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	OnHand     int             `json:"on_hand"`
}

// LowStockAlertEvent published when a product drops to its reorder threshold
type LowStockAlertEvent struct {
	BaseEvent
	ProductID        int64  `json:"product_id"`
	ProductName      string `json:"product_name"`
	OnHand           int    `json:"on_hand"`
	ReorderThreshold int    `json:"reorder_threshold"`
}
