package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

var (
	ErrNotFound        = errors.New("db: record not found")
	ErrCompanyExists   = errors.New("db: company already registered for this owner")
	ErrCompanyNotFound = errors.New("db: company not found")
	ErrInvalidAmount   = errors.New("db: amount must be positive")
)

// translatePgError maps postgres error codes onto the package sentinels.
func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return ErrCompanyExists
		case foreignKeyViolationCode:
			return ErrCompanyNotFound
		case checkViolationCode:
			return ErrInvalidAmount
		}
	}
	return err
}
