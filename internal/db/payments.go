package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// FailedTxHash is recorded for payments that never produced a transaction.
var FailedTxHash = "0x" + strings.Repeat("0", 64)

type Payment struct {
	ID         int64           `json:"id"`
	CompanyID  int64           `json:"company_id"`
	EmployeeID int64           `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	TxHash     string          `json:"tx_hash"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentRecord is a payment joined with the employee's name.
type PaymentRecord struct {
	Payment
	EmployeeName string `json:"employee_name"`
}

type NewPayment struct {
	CompanyID  int64
	EmployeeID int64
	Amount     decimal.Decimal
	Currency   string
	TxHash     string
	Status     string
}

func (db *DB) CreatePayment(ctx context.Context, in NewPayment) (*Payment, error) {
	txHash := in.TxHash
	if txHash == "" {
		txHash = FailedTxHash
	}
	status := in.Status
	if status == "" {
		status = PaymentPending
	}

	var (
		p      Payment
		amount string
	)
	err := db.pool.QueryRow(ctx,
		`INSERT INTO payments (company_id, employee_id, amount, currency, tx_hash, status)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING id, company_id, employee_id, amount::text, currency, tx_hash, status, created_at`,
		in.CompanyID, in.EmployeeID, in.Amount.StringFixed(2), in.Currency, txHash, status,
	).Scan(&p.ID, &p.CompanyID, &p.EmployeeID, &amount, &p.Currency, &p.TxHash, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, translatePgError(err)
	}
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return &p, nil
}

// RecentPayments lists the newest payments of a company first.
func (db *DB) RecentPayments(ctx context.Context, companyID int64, limit int) ([]PaymentRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT p.id, p.company_id, p.employee_id, p.amount::text, p.currency, p.tx_hash, p.status, p.created_at, e.name
           FROM payments p
           JOIN employees e ON e.id = p.employee_id
          WHERE p.company_id = $1
          ORDER BY p.created_at DESC, p.id DESC
          LIMIT $2`,
		companyID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PaymentRecord
	for rows.Next() {
		var (
			r      PaymentRecord
			amount string
		)
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.EmployeeID, &amount, &r.Currency, &r.TxHash, &r.Status, &r.CreatedAt, &r.EmployeeName); err != nil {
			return nil, err
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
