package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"erp-service/internal/errs"
	"erp-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// ApplyMovementTx locks the product row, applies the signed delta to its
// on-hand quantity and appends the movement record, all inside the caller's
// transaction. Returns the resulting on-hand quantity. Outbound movements
// that would drive on-hand negative are rejected.
func (s *Store) ApplyMovementTx(ctx context.Context, tx *sqlx.Tx, mv *models.StockMovement) (int, error) {
	var onHand int
	err := tx.GetContext(ctx, &onHand,
		"SELECT on_hand FROM products WHERE id = $1 FOR UPDATE", mv.ProductID)
	if err == sql.ErrNoRows {
		return 0, errs.NotFound("product", mv.ProductID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to lock product %d: %w", mv.ProductID, err)
	}

	delta := int(mv.Quantity.Round(0).IntPart())
	if mv.Direction == models.DirectionOutbound {
		delta = -delta
	}

	newOnHand := onHand + delta
	if newOnHand < 0 {
		return 0, errs.Conflict("insufficient stock for product %d: on hand %d, requested %d",
			mv.ProductID, onHand, -delta)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE products SET on_hand = $1 WHERE id = $2", newOnHand, mv.ProductID); err != nil {
		return 0, fmt.Errorf("failed to update stock: %w", err)
	}

	query := `
		INSERT INTO stock_movements (product_id, direction, quantity, source_kind, source_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	row := tx.QueryRowxContext(ctx, query,
		mv.ProductID, mv.Direction, mv.Quantity, mv.SourceKind, mv.SourceID)
	if err := row.Scan(&mv.ID, &mv.CreatedAt); err != nil {
		return 0, fmt.Errorf("failed to record movement: %w", err)
	}

	return newOnHand, nil
}

// MovementFilter narrows a movement history query
type MovementFilter struct {
	ProductID *int64
	Direction string
	From      *time.Time
	To        *time.Time
}

// buildMovementQuery assembles the filtered history query. Results are
// ordered by timestamp then id so replaying them is deterministic.
func buildMovementQuery(f MovementFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if f.Direction != "" {
		args = append(args, f.Direction)
		conds = append(conds, fmt.Sprintf("direction = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := "SELECT * FROM stock_movements"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"
	return query, args
}

// ListMovements retrieves the movement history matching the filter
func (s *Store) ListMovements(ctx context.Context, f MovementFilter) ([]models.StockMovement, error) {
	query, args := buildMovementQuery(f)
	var movements []models.StockMovement
	err := s.db.SelectContext(ctx, &movements, query, args...)
	return movements, err
}

// GetMovementsBySource retrieves movements created by one order
func (s *Store) GetMovementsBySource(ctx context.Context, sourceKind string, sourceID int64) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := s.db.SelectContext(ctx, &movements, `
		SELECT * FROM stock_movements
		WHERE source_kind = $1 AND source_id = $2
		ORDER BY created_at, id`,
		sourceKind, sourceID)
	return movements, err
}
