package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

type Employee struct {
	ID                int64           `json:"id"`
	CompanyID         int64           `json:"company_id"`
	Name              string          `json:"name"`
	WalletAddress     string          `json:"wallet_address"`
	TelegramID        *int64          `json:"telegram_id,omitempty"`
	SalaryAmount      decimal.Decimal `json:"salary_amount"`
	PreferredCurrency string          `json:"preferred_currency"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

type NewEmployee struct {
	CompanyID         int64
	Name              string
	WalletAddress     string
	TelegramID        *int64
	SalaryAmount      decimal.Decimal
	PreferredCurrency string
}

const employeeColumns = "id, company_id, name, wallet_address, telegram_id, salary_amount::text, preferred_currency, status, created_at"

func scanEmployee(row rowScanner) (*Employee, error) {
	var (
		e      Employee
		salary string
	)
	if err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &e.WalletAddress, &e.TelegramID, &salary, &e.PreferredCurrency, &e.Status, &e.CreatedAt); err != nil {
		return nil, translatePgError(err)
	}
	amount, err := decimal.NewFromString(salary)
	if err != nil {
		return nil, fmt.Errorf("invalid salary %q for employee %d: %w", salary, e.ID, err)
	}
	e.SalaryAmount = amount
	return &e, nil
}

// CreateEmployee stores a new active employee.
func (db *DB) CreateEmployee(ctx context.Context, in NewEmployee) (*Employee, error) {
	if !in.SalaryAmount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	row := db.pool.QueryRow(ctx,
		`INSERT INTO employees (company_id, name, wallet_address, telegram_id, salary_amount, preferred_currency, status)
         VALUES ($1, $2, $3, $4, $5, $6, 'active')
         RETURNING `+employeeColumns,
		in.CompanyID, in.Name, in.WalletAddress, in.TelegramID, in.SalaryAmount.StringFixed(2), in.PreferredCurrency,
	)
	return scanEmployee(row)
}

// ActiveEmployees returns the company's active employees in insertion order.
func (db *DB) ActiveEmployees(ctx context.Context, companyID int64) ([]Employee, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND status = 'active' ORDER BY id`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// SetEmployeeStatus switches an employee between active and inactive.
func (db *DB) SetEmployeeStatus(ctx context.Context, companyID, employeeID int64, status string) error {
	if status != EmployeeActive && status != EmployeeInactive {
		return fmt.Errorf("unknown employee status %q", status)
	}
	ct, err := db.pool.Exec(ctx,
		`UPDATE employees SET status = $3 WHERE company_id = $1 AND id = $2`,
		companyID, employeeID, status,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
