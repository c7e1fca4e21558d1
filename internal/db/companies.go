package db

import (
	"context"
	"time"
)

type Company struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Name          string    `json:"name"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const companyColumns = "id, owner_id, name, wallet_address, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*Company, error) {
	var c Company
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.WalletAddress, &c.CreatedAt); err != nil {
		return nil, translatePgError(err)
	}
	return &c, nil
}

// CreateCompany registers a company for the given Telegram owner. Each owner
// may hold a single company; a second attempt returns ErrCompanyExists.
func (db *DB) CreateCompany(ctx context.Context, ownerID int64, name string) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO companies (owner_id, name) VALUES ($1, $2) RETURNING `+companyColumns,
		ownerID, name,
	)
	return scanCompany(row)
}

func (db *DB) CompanyByOwner(ctx context.Context, ownerID int64) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE owner_id = $1`,
		ownerID,
	)
	return scanCompany(row)
}

func (db *DB) CompanyByID(ctx context.Context, id int64) (*Company, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`,
		id,
	)
	return scanCompany(row)
}
