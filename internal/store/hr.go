package store

import (
	"context"
	"database/sql"

	"erp-service/internal/errs"
	"erp-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// Employees

// CreateEmployee inserts an employee
func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return s.db.GetContext(ctx, &e.ID, `
		INSERT INTO employees (name, position, base_salary, hired_on, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.Name, e.Position, e.BaseSalary, e.HiredOn, e.Active)
}

// GetEmployeeByID retrieves an employee by ID
func (s *Store) GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error) {
	var e models.Employee
	err := s.db.GetContext(ctx, &e, "SELECT * FROM employees WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("employee", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmployees retrieves all employees
func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var emps []models.Employee
	err := s.db.SelectContext(ctx, &emps, "SELECT * FROM employees ORDER BY id")
	return emps, err
}

// UpdateEmployee updates an employee
func (s *Store) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $1, position = $2, base_salary = $3, hired_on = $4, active = $5
		WHERE id = $6`,
		e.Name, e.Position, e.BaseSalary, e.HiredOn, e.Active, e.ID)
	if err != nil {
		return err
	}
	return checkAffected(res, "employee", e.ID)
}

// DeleteEmployee deletes an employee and its salary records
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "employee", id)
}

// Salaries

// CreateSalaryTx inserts a salary record inside the payroll transaction
func (s *Store) CreateSalaryTx(ctx context.Context, tx *sqlx.Tx, sal *models.Salary) error {
	query := `
		INSERT INTO salaries (employee_id, period, gross, net, amount_paid)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, paid_at`

	row := tx.QueryRowxContext(ctx, query,
		sal.EmployeeID, sal.Period, sal.Gross, sal.Net, sal.AmountPaid)
	return row.Scan(&sal.ID, &sal.PaidAt)
}

// ListSalaries retrieves salaries, optionally filtered by employee and period
func (s *Store) ListSalaries(ctx context.Context, employeeID *int64, period string) ([]models.Salary, error) {
	query := "SELECT * FROM salaries WHERE 1=1"
	args := []interface{}{}
	if employeeID != nil {
		args = append(args, *employeeID)
		query += " AND employee_id = $1"
	}
	if period != "" {
		args = append(args, period)
		if len(args) == 1 {
			query += " AND period = $1"
		} else {
			query += " AND period = $2"
		}
	}
	query += " ORDER BY paid_at DESC"

	var sals []models.Salary
	err := s.db.SelectContext(ctx, &sals, query, args...)
	return sals, err
}
