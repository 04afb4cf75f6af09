package store

import (
	"context"
	"database/sql"
	"time"

	"erp-service/internal/errs"
	"erp-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Sales

// CreateSaleTx inserts a sale header inside the order transaction
func (s *Store) CreateSaleTx(ctx context.Context, tx *sqlx.Tx, sale *models.Sale) error {
	query := `
		INSERT INTO sales (client_id, total, amount_paid, payment_mode, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return tx.GetContext(ctx, sale, query,
		sale.ClientID, sale.Total, sale.AmountPaid, sale.PaymentMode, sale.Status)
}

// CreateSaleLineTx inserts a sale line inside the order transaction
func (s *Store) CreateSaleLineTx(ctx context.Context, tx *sqlx.Tx, line *models.SaleLine) error {
	query := `
		INSERT INTO sale_lines (sale_id, product_id, quantity, unit_price, discount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return tx.GetContext(ctx, &line.ID, query,
		line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.Discount)
}

// GetSaleByID retrieves a sale header by ID
func (s *Store) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("sale", id)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleLines retrieves all lines for a sale
func (s *Store) GetSaleLines(ctx context.Context, saleID int64) ([]models.SaleLine, error) {
	var lines []models.SaleLine
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM sale_lines WHERE sale_id = $1 ORDER BY id", saleID)
	return lines, err
}

// ListSales retrieves sales, optionally filtered by status and client
func (s *Store) ListSales(ctx context.Context, status string, clientID *int64) ([]models.Sale, error) {
	query := "SELECT * FROM sales WHERE 1=1"
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += " AND status = $1"
	}
	if clientID != nil {
		args = append(args, *clientID)
		if len(args) == 1 {
			query += " AND client_id = $1"
		} else {
			query += " AND client_id = $2"
		}
	}
	query += " ORDER BY created_at DESC"

	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales, query, args...)
	return sales, err
}

// UpdateSalePayment updates payment fields and status of a sale
func (s *Store) UpdateSalePayment(ctx context.Context, id int64, amountPaid decimal.Decimal, paymentMode, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE sales SET amount_paid = $1, payment_mode = $2, status = $3 WHERE id = $4",
		amountPaid, paymentMode, status, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "sale", id)
}

// Purchases

// CreatePurchaseTx inserts a purchase header inside the order transaction
func (s *Store) CreatePurchaseTx(ctx context.Context, tx *sqlx.Tx, purchase *models.Purchase) error {
	query := `
		INSERT INTO purchases (supplier_id, total, amount_paid, payment_mode, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return tx.GetContext(ctx, purchase, query,
		purchase.SupplierID, purchase.Total, purchase.AmountPaid, purchase.PaymentMode, purchase.Status)
}

// CreatePurchaseLineTx inserts a purchase line inside the order transaction
func (s *Store) CreatePurchaseLineTx(ctx context.Context, tx *sqlx.Tx, line *models.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (purchase_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return tx.GetContext(ctx, &line.ID, query,
		line.PurchaseID, line.ProductID, line.Quantity, line.UnitPrice)
}

// GetPurchaseByID retrieves a purchase header by ID
func (s *Store) GetPurchaseByID(ctx context.Context, id int64) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.GetContext(ctx, &purchase, "SELECT * FROM purchases WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("purchase", id)
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// GetPurchaseLines retrieves all lines for a purchase
func (s *Store) GetPurchaseLines(ctx context.Context, purchaseID int64) ([]models.PurchaseLine, error) {
	var lines []models.PurchaseLine
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM purchase_lines WHERE purchase_id = $1 ORDER BY id", purchaseID)
	return lines, err
}

// ListPurchases retrieves purchases, optionally filtered by status and supplier
func (s *Store) ListPurchases(ctx context.Context, status string, supplierID *int64) ([]models.Purchase, error) {
	query := "SELECT * FROM purchases WHERE 1=1"
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		query += " AND status = $1"
	}
	if supplierID != nil {
		args = append(args, *supplierID)
		if len(args) == 1 {
			query += " AND supplier_id = $1"
		} else {
			query += " AND supplier_id = $2"
		}
	}
	query += " ORDER BY created_at DESC"

	var purchases []models.Purchase
	err := s.db.SelectContext(ctx, &purchases, query, args...)
	return purchases, err
}

// UpdatePurchasePayment updates payment fields and status of a purchase
func (s *Store) UpdatePurchasePayment(ctx context.Context, id int64, amountPaid decimal.Decimal, paymentMode, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE purchases SET amount_paid = $1, payment_mode = $2, status = $3 WHERE id = $4",
		amountPaid, paymentMode, status, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "purchase", id)
}

// Dashboard aggregates

// SumPaidSales sums totals of paid sales in [from, to)
func (s *Store) SumPaidSales(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(total), 0) FROM sales
		WHERE status = $1 AND created_at >= $2 AND created_at < $3`,
		models.SaleStatusPaid, from, to)
	return total, err
}

// SumReceivedPurchases sums totals of paid and partially paid purchases in [from, to)
func (s *Store) SumReceivedPurchases(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(total), 0) FROM purchases
		WHERE status IN ($1, $2) AND created_at >= $3 AND created_at < $4`,
		models.PurchaseStatusPaid, models.PurchaseStatusPartiallyPaid, from, to)
	return total, err
}

// SalesBucket is one aggregation bucket of the sales history
type SalesBucket struct {
	Bucket  time.Time       `db:"bucket" json:"bucket"`
	Total   decimal.Decimal `db:"total" json:"total"`
	Count   int64           `db:"n" json:"count"`
	Average decimal.Decimal `db:"average" json:"average"`
}

// SalesHistory buckets paid sales by period ("day", "week" or "month"),
// ascending. Callers must validate period; it is passed to date_trunc.
func (s *Store) SalesHistory(ctx context.Context, period string, from, to time.Time) ([]SalesBucket, error) {
	var buckets []SalesBucket
	err := s.db.SelectContext(ctx, &buckets, `
		SELECT date_trunc($1, created_at) AS bucket,
		       COALESCE(SUM(total), 0) AS total,
		       COUNT(*) AS n,
		       COALESCE(AVG(total), 0) AS average
		FROM sales
		WHERE status = $2 AND created_at >= $3 AND created_at < $4
		GROUP BY bucket
		ORDER BY bucket`,
		period, models.SaleStatusPaid, from, to)
	return buckets, err
}
