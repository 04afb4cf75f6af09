package service

import (
	"context"
	"testing"

	"erp-service/internal/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyMovementValidation(t *testing.T) {
	sl := &StockLedger{}
	ctx := context.Background()

	_, err := sl.ApplyMovement(ctx, &ApplyMovementRequest{
		ProductID: 1, Direction: "sideways", Quantity: dec("1"),
	})
	assert.True(t, errs.IsValidation(err))

	_, err = sl.ApplyMovement(ctx, &ApplyMovementRequest{
		ProductID: 1, Direction: "in", Quantity: decimal.Zero,
	})
	assert.True(t, errs.IsValidation(err))

	_, err = sl.ApplyMovement(ctx, &ApplyMovementRequest{
		ProductID: 1, Direction: "out", Quantity: dec("-2"),
	})
	assert.True(t, errs.IsValidation(err))
}

func TestListMovementsRejectsBadDirection(t *testing.T) {
	sl := &StockLedger{}

	_, err := sl.ListMovements(context.Background(), MovementQuery{Direction: "both"})
	assert.True(t, errs.IsValidation(err))
}

func TestSalesHistoryRejectsBadPeriod(t *testing.T) {
	ds := &DashboardService{}

	_, err := ds.SalesHistory(context.Background(), 30, "hour")
	assert.True(t, errs.IsValidation(err))
}

func TestCreateSalaryValidation(t *testing.T) {
	ps := &PayrollService{}
	ctx := context.Background()

	_, err := ps.CreateSalary(ctx, &CreateSalaryRequest{
		EmployeeID: 1, Period: "2026-08", Gross: decimal.Zero,
	})
	assert.True(t, errs.IsValidation(err))

	_, err = ps.CreateSalary(ctx, &CreateSalaryRequest{
		EmployeeID: 1, Period: "2026-08", Gross: dec("1000"), Net: dec("1200"),
	})
	assert.True(t, errs.IsValidation(err))

	_, err = ps.CreateSalary(ctx, &CreateSalaryRequest{
		EmployeeID: 1, Period: "2026-08", Gross: dec("1000"), Net: dec("900"), AmountPaid: dec("950"),
	})
	assert.True(t, errs.IsValidation(err))
}
