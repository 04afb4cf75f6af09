package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"erp-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateTransactionTx appends a ledger entry inside the caller's transaction.
// Entries are write-once; there is no update or delete path.
func (s *Store) CreateTransactionTx(ctx context.Context, tx *sqlx.Tx, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (direction, module, reference_id, amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	row := tx.QueryRowxContext(ctx, query,
		t.Direction, t.Module, t.ReferenceID, t.Amount, t.Description)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

// TransactionFilter narrows a ledger listing
type TransactionFilter struct {
	Direction string
	Module    string
	From      *time.Time
	To        *time.Time
}

// buildTransactionQuery assembles the filtered ledger listing, oldest first
func buildTransactionQuery(f TransactionFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if f.Direction != "" {
		args = append(args, f.Direction)
		conds = append(conds, fmt.Sprintf("direction = $%d", len(args)))
	}
	if f.Module != "" {
		args = append(args, f.Module)
		conds = append(conds, fmt.Sprintf("module = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := "SELECT * FROM transactions"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"
	return query, args
}

// ListTransactions retrieves ledger entries matching the filter
func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	query, args := buildTransactionQuery(f)
	var txns []models.Transaction
	err := s.db.SelectContext(ctx, &txns, query, args...)
	return txns, err
}

// GetTransactionsByReference retrieves ledger entries for one order
func (s *Store) GetTransactionsByReference(ctx context.Context, module string, referenceID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.SelectContext(ctx, &txns, `
		SELECT * FROM transactions
		WHERE module = $1 AND reference_id = $2
		ORDER BY created_at, id`,
		module, referenceID)
	return txns, err
}
