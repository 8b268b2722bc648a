package client

import (
	"context"

	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/carTloyal123/shoppi/internal/rpc"
)

// Row is a single table row keyed by column name.
type Row = rpc.Row

// AuthGateway wraps the backend authentication sub-API.
type AuthGateway interface {
	SignUp(ctx context.Context, email, password string) (*models.BackendSession, error)
	SignIn(ctx context.Context, email, password string) (*models.BackendSession, error)
	// SignOut invalidates the backend session. The local token is dropped
	// even if the call fails.
	SignOut(ctx context.Context) error
	// CurrentIdentity returns ErrNoIdentity when no session is armed.
	CurrentIdentity(ctx context.Context) (*models.Identity, error)
	// SetAccessToken re-arms a token restored from local storage.
	SetAccessToken(token string)
}

// RowGateway exposes the backend's row-level primitives.
type RowGateway interface {
	SelectEq(ctx context.Context, table, column string, value any) ([]Row, error)
	InsertReturning(ctx context.Context, table string, row Row) (Row, error)
	UpdateEq(ctx context.Context, table, column string, value any, changes Row) ([]Row, error)
	DeleteEq(ctx context.Context, table, column string, value any) error
}

type Client interface {
	AuthGateway
	RowGateway
	Ping(ctx context.Context) error
	Close() error
}
