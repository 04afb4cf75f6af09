package service

import (
	"context"
	"fmt"

	"erp-service/internal/auth"
	"erp-service/internal/errs"
	"erp-service/internal/models"
	"erp-service/internal/store"
	"erp-service/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PayrollService records salary payments. Each salary record and its expense
// ledger entry are written in one transaction, the same unit-of-work idiom
// as order creation.
type PayrollService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewPayrollService creates a new payroll service
func NewPayrollService(store *store.Store) *PayrollService {
	return &PayrollService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateSalaryRequest records a salary payment for an employee and period
type CreateSalaryRequest struct {
	EmployeeID int64           `json:"employee_id" binding:"required"`
	Period     string          `json:"period" binding:"required"`
	Gross      decimal.Decimal `json:"gross"`
	Net        decimal.Decimal `json:"net"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// CreateSalary persists the salary record and appends the matching expense
// ledger entry atomically
func (ps *PayrollService) CreateSalary(ctx context.Context, req *CreateSalaryRequest) (*models.Salary, error) {
	ctx, span := util.StartSpan(ctx, "PayrollService.CreateSalary")
	defer span.End()

	if !req.Gross.IsPositive() {
		return nil, errs.Validation("gross", "gross salary must be greater than zero")
	}
	if req.Net.IsNegative() || req.Net.GreaterThan(req.Gross) {
		return nil, errs.Validation("net", "net salary must be between zero and gross")
	}
	if req.AmountPaid.IsNegative() || req.AmountPaid.GreaterThan(req.Net) {
		return nil, errs.Validation("amount_paid", "amount paid must be between zero and net")
	}

	if _, err := ps.store.GetEmployeeByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	salary := &models.Salary{
		EmployeeID: req.EmployeeID,
		Period:     req.Period,
		Gross:      req.Gross,
		Net:        req.Net,
		AmountPaid: req.AmountPaid,
	}

	err := ps.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := ps.store.CreateSalaryTx(ctx, tx, salary); err != nil {
			return fmt.Errorf("failed to create salary: %w", err)
		}

		txn := &models.Transaction{
			Direction:   models.TxnExpense,
			Module:      models.ModulePayroll,
			ReferenceID: salary.ID,
			Amount:      salary.AmountPaid,
			Description: fmt.Sprintf("salary #%d period %s (by %s)", salary.ID, salary.Period, auth.ActorName(ctx)),
		}
		return ps.store.CreateTransactionTx(ctx, tx, txn)
	})
	if err != nil {
		return nil, err
	}

	util.SalariesRecordedTotal.Inc()
	util.LedgerEntriesTotal.WithLabelValues(models.TxnExpense, models.ModulePayroll).Inc()
	ps.logger.Info("Salary recorded",
		zap.Int64("salary_id", salary.ID),
		zap.Int64("employee_id", salary.EmployeeID),
		zap.String("period", salary.Period))

	return salary, nil
}

// ListSalaries lists salaries filtered by employee and period
func (ps *PayrollService) ListSalaries(ctx context.Context, employeeID *int64, period string) ([]models.Salary, error) {
	return ps.store.ListSalaries(ctx, employeeID, period)
}
