package service

import (
	"context"
	"fmt"
	"time"

	"erp-service/internal/auth"
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

// OrderService owns creation and mutation of sales and purchases together
// with their line items. The order header, its lines, one stock movement per
// line and one ledger entry are written in a single database transaction.
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// OrderLineRequest is one line-item specification of an order submission
type OrderLineRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest is a sale submission
type CreateSaleRequest struct {
	ClientID    *int64             `json:"client_id"`
	Total       decimal.Decimal    `json:"total"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"`
	PaymentMode string             `json:"payment_mode"`
	Status      string             `json:"status"`
	Lines       []OrderLineRequest `json:"lines" binding:"required"`
}

// CreatePurchaseRequest is a purchase submission. Discounts on lines are
// ignored for purchases.
type CreatePurchaseRequest struct {
	SupplierID  *int64             `json:"supplier_id"`
	Total       decimal.Decimal    `json:"total"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"`
	PaymentMode string             `json:"payment_mode"`
	Status      string             `json:"status"`
	Lines       []OrderLineRequest `json:"lines" binding:"required"`
}

// validateLines checks the structural invariants of the submitted lines
func validateLines(lines []OrderLineRequest, withDiscount bool) error {
	if len(lines) == 0 {
		return errs.Validation("lines", "order must have at least one line")
	}
	for i, line := range lines {
		if line.ProductID == 0 {
			return errs.Validation("lines", "line %d is missing a product id", i)
		}
		if !line.Quantity.IsPositive() {
			return errs.Validation("lines", "line %d quantity must be greater than zero", i)
		}
		if line.UnitPrice.IsNegative() {
			return errs.Validation("lines", "line %d unit price must not be negative", i)
		}
		if withDiscount && line.Discount.IsNegative() {
			return errs.Validation("lines", "line %d discount must not be negative", i)
		}
	}
	return nil
}

// sumLines computes sum(quantity x unit price - discount) over the lines.
// withDiscount is false for purchases, whose lines carry no discount.
func sumLines(lines []OrderLineRequest, withDiscount bool) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		amount := line.Quantity.Mul(line.UnitPrice)
		if withDiscount {
			amount = amount.Sub(line.Discount)
		}
		total = total.Add(amount)
	}
	return total
}

// validateAmounts enforces total == line sum and amount_paid <= total
func validateAmounts(total, paid, lineSum decimal.Decimal) error {
	if !total.Equal(lineSum) {
		return errs.Validation("total", "declared total %s does not match line sum %s",
			total.String(), lineSum.String())
	}
	if paid.IsNegative() {
		return errs.Validation("amount_paid", "amount paid must not be negative")
	}
	if paid.GreaterThan(total) {
		return errs.Validation("amount_paid", "amount paid %s exceeds total %s",
			paid.String(), total.String())
	}
	return nil
}

// resolveProducts fetches every referenced product, failing on the first
// unknown id so the caller knows which reference is broken
func (s *OrderService) resolveProducts(ctx context.Context, lines []OrderLineRequest) (map[int64]*models.Product, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	productMap := make(map[int64]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		if productMap[id] == nil {
			return nil, errs.Validation("lines", "unknown product %d", id)
		}
	}
	return productMap, nil
}

// CreateSale validates and persists a sale with its lines, decrements stock
// per line and appends one revenue ledger entry, atomically
func (s *OrderService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*models.Sale, []models.SaleLine, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateSale")
	defer span.End()

	start := time.Now()
	defer func() { util.OrderCreateLatency.Observe(time.Since(start).Seconds()) }()

	status := req.Status
	if status == "" {
		status = models.SaleStatusPending
	}
	if !models.ValidSaleStatus(status) {
		util.OrdersFailedTotal.WithLabelValues("sale", "invalid_status").Inc()
		return nil, nil, errs.Validation("status", "invalid sale status %q", status)
	}

	if err := validateLines(req.Lines, true); err != nil {
		util.OrdersFailedTotal.WithLabelValues("sale", "invalid_lines").Inc()
		return nil, nil, err
	}
	if err := validateAmounts(req.Total, req.AmountPaid, sumLines(req.Lines, true)); err != nil {
		util.OrdersFailedTotal.WithLabelValues("sale", "invalid_amounts").Inc()
		return nil, nil, err
	}

	if _, err := s.resolveProducts(ctx, req.Lines); err != nil {
		util.OrdersFailedTotal.WithLabelValues("sale", "unknown_product").Inc()
		return nil, nil, err
	}

	if req.ClientID != nil {
		if _, err := s.store.GetClientByID(ctx, *req.ClientID); err != nil {
			if errs.IsNotFound(err) {
				util.OrdersFailedTotal.WithLabelValues("sale", "unknown_client").Inc()
				return nil, nil, errs.Validation("client_id", "unknown client %d", *req.ClientID)
			}
			return nil, nil, err
		}
	}

	sale := &models.Sale{
		ClientID:    req.ClientID,
		Total:       req.Total,
		AmountPaid:  req.AmountPaid,
		PaymentMode: req.PaymentMode,
		Status:      status,
	}

	lines := make([]models.SaleLine, len(req.Lines))
	stockAfter := make(map[int64]int, len(req.Lines))

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.store.CreateSaleTx(ctx, tx, sale); err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		for i, lr := range req.Lines {
			productID := lr.ProductID
			lines[i] = models.SaleLine{
				SaleID:    sale.ID,
				ProductID: &productID,
				Quantity:  lr.Quantity,
				UnitPrice: lr.UnitPrice,
				Discount:  lr.Discount,
			}
			if err := s.store.CreateSaleLineTx(ctx, tx, &lines[i]); err != nil {
				return fmt.Errorf("failed to create sale line: %w", err)
			}

			saleID := sale.ID
			movement := &models.StockMovement{
				ProductID:  lr.ProductID,
				Direction:  models.DirectionOutbound,
				Quantity:   lr.Quantity,
				SourceKind: models.SourceSale,
				SourceID:   &saleID,
			}
			onHand, err := s.store.ApplyMovementTx(ctx, tx, movement)
			if err != nil {
				return err
			}
			stockAfter[lr.ProductID] = onHand
		}

		txn := &models.Transaction{
			Direction:   models.TxnRevenue,
			Module:      models.ModuleSales,
			ReferenceID: sale.ID,
			Amount:      sale.Total,
			Description: fmt.Sprintf("sale #%d (by %s)", sale.ID, auth.ActorName(ctx)),
		}
		return s.store.CreateTransactionTx(ctx, tx, txn)
	})
	if err != nil {
		if errs.IsConflict(err) {
			util.OrdersFailedTotal.WithLabelValues("sale", "insufficient_stock").Inc()
		} else if !errs.IsValidation(err) && !errs.IsNotFound(err) {
			util.OrdersFailedTotal.WithLabelValues("sale", "db_error").Inc()
		}
		return nil, nil, err
	}

	util.SalesCreatedTotal.Inc()
	for range req.Lines {
		util.StockMovementsTotal.WithLabelValues(models.DirectionOutbound, models.SourceSale).Inc()
	}
	util.LedgerEntriesTotal.WithLabelValues(models.TxnRevenue, models.ModuleSales).Inc()
	s.logger.Info("Sale created",
		zap.Int64("sale_id", sale.ID),
		zap.Int("lines", len(lines)),
		zap.String("total", sale.Total.String()))

	s.afterOrderCommit(ctx, "sale", sale.ID, sale.Total, req.Lines, stockAfter)

	return sale, lines, nil
}

// CreatePurchase validates and persists a purchase with its lines, increments
// stock per line and appends one expense ledger entry, atomically
func (s *OrderService) CreatePurchase(ctx context.Context, req *CreatePurchaseRequest) (*models.Purchase, []models.PurchaseLine, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreatePurchase")
	defer span.End()

	start := time.Now()
	defer func() { util.OrderCreateLatency.Observe(time.Since(start).Seconds()) }()

	status := req.Status
	if status == "" {
		status = models.PurchaseStatusPending
	}
	if !models.ValidPurchaseStatus(status) {
		util.OrdersFailedTotal.WithLabelValues("purchase", "invalid_status").Inc()
		return nil, nil, errs.Validation("status", "invalid purchase status %q", status)
	}

	if err := validateLines(req.Lines, false); err != nil {
		util.OrdersFailedTotal.WithLabelValues("purchase", "invalid_lines").Inc()
		return nil, nil, err
	}
	if err := validateAmounts(req.Total, req.AmountPaid, sumLines(req.Lines, false)); err != nil {
		util.OrdersFailedTotal.WithLabelValues("purchase", "invalid_amounts").Inc()
		return nil, nil, err
	}

	if _, err := s.resolveProducts(ctx, req.Lines); err != nil {
		util.OrdersFailedTotal.WithLabelValues("purchase", "unknown_product").Inc()
		return nil, nil, err
	}

	if req.SupplierID != nil {
		if _, err := s.store.GetSupplierByID(ctx, *req.SupplierID); err != nil {
			if errs.IsNotFound(err) {
				util.OrdersFailedTotal.WithLabelValues("purchase", "unknown_supplier").Inc()
				return nil, nil, errs.Validation("supplier_id", "unknown supplier %d", *req.SupplierID)
			}
			return nil, nil, err
		}
	}

	purchase := &models.Purchase{
		SupplierID:  req.SupplierID,
		Total:       req.Total,
		AmountPaid:  req.AmountPaid,
		PaymentMode: req.PaymentMode,
		Status:      status,
	}

	lines := make([]models.PurchaseLine, len(req.Lines))
	stockAfter := make(map[int64]int, len(req.Lines))

	err := s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.store.CreatePurchaseTx(ctx, tx, purchase); err != nil {
			return fmt.Errorf("failed to create purchase: %w", err)
		}

		for i, lr := range req.Lines {
			productID := lr.ProductID
			lines[i] = models.PurchaseLine{
				PurchaseID: purchase.ID,
				ProductID:  &productID,
				Quantity:   lr.Quantity,
				UnitPrice:  lr.UnitPrice,
			}
			if err := s.store.CreatePurchaseLineTx(ctx, tx, &lines[i]); err != nil {
				return fmt.Errorf("failed to create purchase line: %w", err)
			}

			purchaseID := purchase.ID
			movement := &models.StockMovement{
				ProductID:  lr.ProductID,
				Direction:  models.DirectionInbound,
				Quantity:   lr.Quantity,
				SourceKind: models.SourcePurchase,
				SourceID:   &purchaseID,
			}
			onHand, err := s.store.ApplyMovementTx(ctx, tx, movement)
			if err != nil {
				return err
			}
			stockAfter[lr.ProductID] = onHand
		}

		txn := &models.Transaction{
			Direction:   models.TxnExpense,
			Module:      models.ModulePurchases,
			ReferenceID: purchase.ID,
			Amount:      purchase.Total,
			Description: fmt.Sprintf("purchase #%d (by %s)", purchase.ID, auth.ActorName(ctx)),
		}
		return s.store.CreateTransactionTx(ctx, tx, txn)
	})
	if err != nil {
		if !errs.IsValidation(err) && !errs.IsNotFound(err) && !errs.IsConflict(err) {
			util.OrdersFailedTotal.WithLabelValues("purchase", "db_error").Inc()
		}
		return nil, nil, err
	}

	util.PurchasesCreatedTotal.Inc()
	for range req.Lines {
		util.StockMovementsTotal.WithLabelValues(models.DirectionInbound, models.SourcePurchase).Inc()
	}
	util.LedgerEntriesTotal.WithLabelValues(models.TxnExpense, models.ModulePurchases).Inc()
	s.logger.Info("Purchase created",
		zap.Int64("purchase_id", purchase.ID),
		zap.Int("lines", len(lines)),
		zap.String("total", purchase.Total.String()))

	s.afterOrderCommit(ctx, "purchase", purchase.ID, purchase.Total, req.Lines, stockAfter)

	return purchase, lines, nil
}

// afterOrderCommit runs the non-transactional side effects: stock mirror
// refresh, dashboard cache invalidation and event publishing. Failures here
// are logged, never surfaced; the committed order stands.
func (s *OrderService) afterOrderCommit(ctx context.Context, kind string, orderID int64, total decimal.Decimal, lines []OrderLineRequest, stockAfter map[int64]int) {
	for productID, onHand := range stockAfter {
		if err := s.redis.SetProductStock(ctx, productID, onHand); err != nil {
			s.logger.Warn("Failed to refresh stock mirror",
				zap.Int64("product_id", productID), zap.Error(err))
		}
	}
	if err := s.redis.InvalidateDashboardStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}

	eventLines := make([]models.OrderLineData, len(lines))
	for i, line := range lines {
		eventLines[i] = models.OrderLineData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCreated,
			Timestamp: time.Now(),
		},
		Kind:    kind,
		OrderID: orderID,
		Total:   total,
		Lines:   eventLines,
	}
	if kind == "purchase" {
		event.EventType = models.EventTypePurchaseCreated
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.Int64("order_id", orderID), zap.Error(err))
	}
}

// GetSale retrieves a sale and its lines
func (s *OrderService) GetSale(ctx context.Context, id int64) (*models.Sale, []models.SaleLine, error) {
	sale, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.store.GetSaleLines(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sale, lines, nil
}

// GetPurchase retrieves a purchase and its lines
func (s *OrderService) GetPurchase(ctx context.Context, id int64) (*models.Purchase, []models.PurchaseLine, error) {
	purchase, err := s.store.GetPurchaseByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.store.GetPurchaseLines(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return purchase, lines, nil
}

// ListSales lists sales filtered by status and client
func (s *OrderService) ListSales(ctx context.Context, status string, clientID *int64) ([]models.Sale, error) {
	if status != "" && !models.ValidSaleStatus(status) {
		return nil, errs.Validation("status", "invalid sale status %q", status)
	}
	return s.store.ListSales(ctx, status, clientID)
}

// ListPurchases lists purchases filtered by status and supplier
func (s *OrderService) ListPurchases(ctx context.Context, status string, supplierID *int64) ([]models.Purchase, error) {
	if status != "" && !models.ValidPurchaseStatus(status) {
		return nil, errs.Validation("status", "invalid purchase status %q", status)
	}
	return s.store.ListPurchases(ctx, status, supplierID)
}

// UpdatePaymentRequest updates payment fields of an order
type UpdatePaymentRequest struct {
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
}

// UpdateSalePayment sets the amount paid, payment mode and status of a sale.
// Statuses stay caller-set; there is no automatic transition.
func (s *OrderService) UpdateSalePayment(ctx context.Context, id int64, req *UpdatePaymentRequest) (*models.Sale, error) {
	sale, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.ValidSaleStatus(req.Status) {
		return nil, errs.Validation("status", "invalid sale status %q", req.Status)
	}
	if req.AmountPaid.IsNegative() {
		return nil, errs.Validation("amount_paid", "amount paid must not be negative")
	}
	if req.AmountPaid.GreaterThan(sale.Total) {
		return nil, errs.Validation("amount_paid", "amount paid %s exceeds total %s",
			req.AmountPaid.String(), sale.Total.String())
	}
	if err := s.store.UpdateSalePayment(ctx, id, req.AmountPaid, req.PaymentMode, req.Status); err != nil {
		return nil, err
	}
	if err := s.redis.InvalidateDashboardStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
	return s.store.GetSaleByID(ctx, id)
}

// UpdatePurchasePayment sets the amount paid, payment mode and status of a purchase
func (s *OrderService) UpdatePurchasePayment(ctx context.Context, id int64, req *UpdatePaymentRequest) (*models.Purchase, error) {
	purchase, err := s.store.GetPurchaseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.ValidPurchaseStatus(req.Status) {
		return nil, errs.Validation("status", "invalid purchase status %q", req.Status)
	}
	if req.AmountPaid.IsNegative() {
		return nil, errs.Validation("amount_paid", "amount paid must not be negative")
	}
	if req.AmountPaid.GreaterThan(purchase.Total) {
		return nil, errs.Validation("amount_paid", "amount paid %s exceeds total %s",
			req.AmountPaid.String(), purchase.Total.String())
	}
	if err := s.store.UpdatePurchasePayment(ctx, id, req.AmountPaid, req.PaymentMode, req.Status); err != nil {
		return nil, err
	}
	if err := s.redis.InvalidateDashboardStats(ctx); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
	return s.store.GetPurchaseByID(ctx, id)
}
