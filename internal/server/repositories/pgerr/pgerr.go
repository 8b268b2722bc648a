// Package pgerr maps PostgreSQL errors onto the shared sentinel errors.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes of interest.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	NotNullViolation    = "23502"
	CheckViolation      = "23514"
)

// Map wraps err with common.ErrorAlreadyExists for unique violations and
// common.ErrorConstraint for other integrity violations. Anything else is
// returned as a "db error".
func Map(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case UniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.Message)
		case ForeignKeyViolation, NotNullViolation, CheckViolation:
			return fmt.Errorf("%w: %s", common.ErrorConstraint, pgErr.Message)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
