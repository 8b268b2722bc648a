// Package directory reads and writes application profile rows in the
// backend "users" table.
//
// Emails are normalised before being used as the lookup key. The package
// never deduplicates on its own: callers that want create-if-absent must
// FetchByEmail first.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carTloyal123/shoppi/internal/client/client"
	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/logging"
)

const usersTable = "users"

var (
	// ErrNotFound is the normal outcome of a lookup for an unknown email.
	ErrNotFound  = errors.New("profile not found")
	ErrDuplicate = errors.New("profile already exists")
)

// DirectoryError wraps a failed profile fetch or create.
type DirectoryError struct {
	Op  string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s: %v", e.Op, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

type Directory struct {
	rows   client.RowGateway
	logger logging.Logger
}

func New(rows client.RowGateway, l logging.Logger) *Directory {
	return &Directory{rows: rows, logger: l.With("module", "directory")}
}

// FetchByEmail returns ErrNotFound (unwrapped) when no row matches.
func (d *Directory) FetchByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.fetchOne(ctx, "fetch", "email", common.NormalizeEmail(email))
}

func (d *Directory) FetchByID(ctx context.Context, id int64) (*models.User, error) {
	return d.fetchOne(ctx, "fetch", "user_id", id)
}

// Exists reports whether a profile row exists for email.
func (d *Directory) Exists(ctx context.Context, email string) (bool, error) {
	_, err := d.FetchByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (d *Directory) fetchOne(ctx context.Context, op, column string, value any) (*models.User, error) {
	rows, err := d.rows.SelectEq(ctx, usersTable, column, value)
	if err != nil {
		return nil, &DirectoryError{Op: op, Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	if len(rows) > 1 {
		d.logger.Warn(ctx, "more than one profile row for key", column, value, "rows", len(rows))
	}

	var u models.User
	if err := client.ScanRow(rows[0], &u); err != nil {
		return nil, &DirectoryError{Op: op, Err: err}
	}
	return &u, nil
}

// Create inserts a profile row and returns it as stored by the backend.
func (d *Directory) Create(ctx context.Context, email, username, digest string) (*models.User, error) {
	email = common.NormalizeEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || digest == "" {
		return nil, &DirectoryError{Op: "create", Err: client.ErrInvalidInput}
	}

	row, err := d.rows.InsertReturning(ctx, usersTable, client.Row{
		"email":         email,
		"username":      username,
		"password_hash": digest,
	})
	if err != nil {
		if errors.Is(err, client.ErrConflict) {
			err = fmt.Errorf("%w: %w", ErrDuplicate, err)
		}
		return nil, &DirectoryError{Op: "create", Err: err}
	}

	var u models.User
	if err := client.ScanRow(row, &u); err != nil {
		return nil, &DirectoryError{Op: "create", Err: err}
	}
	d.logger.Info(ctx, "profile created", "user_id", u.ID)
	return &u, nil
}

// UpdateUsername changes the username of the profile with id.
func (d *Directory) UpdateUsername(ctx context.Context, id int64, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &DirectoryError{Op: "update", Err: client.ErrInvalidInput}
	}

	rows, err := d.rows.UpdateEq(ctx, usersTable, "user_id", id, client.Row{"username": username})
	if err != nil {
		return nil, &DirectoryError{Op: "update", Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	var u models.User
	if err := client.ScanRow(rows[0], &u); err != nil {
		return nil, &DirectoryError{Op: "update", Err: err}
	}
	return &u, nil
}
