package service

import (
	"context"
	"time"

	"erp-service/internal/broker"
	"erp-service/internal/errs"
	"erp-service/internal/models"
	"erp-service/internal/redisclient"
	"erp-service/internal/store"
	"erp-service/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockLedger maintains each product's on-hand quantity as the running sum
// of applied movements and exposes the append-only movement history.
// Corrections are additional movements; nothing is edited or deleted.
type StockLedger struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewStockLedger creates a new stock ledger service
func NewStockLedger(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *StockLedger {
	return &StockLedger{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// ApplyMovementRequest is a manual stock adjustment
type ApplyMovementRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Direction string          `json:"direction" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ApplyMovement applies a manual adjustment to a product's on-hand quantity
// and appends the movement record
func (sl *StockLedger) ApplyMovement(ctx context.Context, req *ApplyMovementRequest) (*models.StockMovement, error) {
	ctx, span := util.StartSpan(ctx, "StockLedger.ApplyMovement")
	defer span.End()

	if req.Direction != models.DirectionInbound && req.Direction != models.DirectionOutbound {
		return nil, errs.Validation("direction", "direction must be %q or %q",
			models.DirectionInbound, models.DirectionOutbound)
	}
	if !req.Quantity.IsPositive() {
		return nil, errs.Validation("quantity", "quantity must be greater than zero")
	}

	movement := &models.StockMovement{
		ProductID:  req.ProductID,
		Direction:  req.Direction,
		Quantity:   req.Quantity,
		SourceKind: models.SourceManual,
	}

	var onHand int
	err := sl.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		onHand, err = sl.store.ApplyMovementTx(ctx, tx, movement)
		return err
	})
	if err != nil {
		return nil, err
	}

	util.StockMovementsTotal.WithLabelValues(req.Direction, models.SourceManual).Inc()
	sl.logger.Info("Stock adjusted",
		zap.Int64("product_id", req.ProductID),
		zap.String("direction", req.Direction),
		zap.String("quantity", req.Quantity.String()),
		zap.Int("on_hand", onHand))

	if err := sl.redis.SetProductStock(ctx, req.ProductID, onHand); err != nil {
		sl.logger.Warn("Failed to refresh stock mirror",
			zap.Int64("product_id", req.ProductID), zap.Error(err))
	}
	if err := sl.redis.InvalidateDashboardStats(ctx); err != nil {
		sl.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	event := &models.StockAdjustedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockAdjusted,
			Timestamp: time.Now(),
		},
		MovementID: movement.ID,
		ProductID:  movement.ProductID,
		Direction:  movement.Direction,
		Quantity:   movement.Quantity,
		OnHand:     onHand,
	}
	if err := sl.eventPublisher.PublishStockAdjusted(ctx, event); err != nil {
		sl.logger.Error("Failed to publish StockAdjusted event",
			zap.Int64("movement_id", movement.ID), zap.Error(err))
	}

	return movement, nil
}

// MovementQuery filters a movement history listing
type MovementQuery struct {
	ProductID *int64
	Direction string
	From      *time.Time
	To        *time.Time
}

// ListMovements returns the movement history in chronological order
func (sl *StockLedger) ListMovements(ctx context.Context, q MovementQuery) ([]models.StockMovement, error) {
	if q.Direction != "" && q.Direction != models.DirectionInbound && q.Direction != models.DirectionOutbound {
		return nil, errs.Validation("direction", "direction must be %q or %q",
			models.DirectionInbound, models.DirectionOutbound)
	}
	return sl.store.ListMovements(ctx, store.MovementFilter{
		ProductID: q.ProductID,
		Direction: q.Direction,
		From:      q.From,
		To:        q.To,
	})
}

// SyncStockToRedis mirrors every product's on-hand quantity to Redis,
// called once at startup
func (sl *StockLedger) SyncStockToRedis(ctx context.Context) error {
	products, err := sl.store.ListProducts(ctx, nil)
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := sl.redis.SetProductStock(ctx, p.ID, p.OnHand); err != nil {
			sl.logger.Error("Failed to mirror stock",
				zap.Int64("product_id", p.ID), zap.Error(err))
		}
	}
	sl.logger.Info("Stock mirror sync completed", zap.Int("count", len(products)))
	return nil
}
