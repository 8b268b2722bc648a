package repomanager

import (
	"context"
	"database/sql"

	"github.com/carTloyal123/shoppi/internal/dbx"
	"github.com/carTloyal123/shoppi/internal/server/repositories/identities"
	"github.com/carTloyal123/shoppi/internal/server/repositories/rows"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Identities(db dbx.DBTX) identities.Repository
	Rows(db dbx.DBTX) rows.Repository
}
