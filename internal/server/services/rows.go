package services

import (
	"context"
	"database/sql"

	"github.com/carTloyal123/shoppi/internal/server/repositories/repomanager"
	"github.com/carTloyal123/shoppi/internal/server/repositories/rows"
)

// RowService exposes the allow-listed row API.
type RowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRowService(db *sql.DB, m repomanager.RepositoryManager) *RowService {
	return &RowService{db: db, repomanager: m}
}

func (s *RowService) Select(ctx context.Context, table, column string, value any) ([]rows.Row, error) {
	return s.repomanager.Rows(s.db).Select(ctx, table, column, value)
}

func (s *RowService) Insert(ctx context.Context, table string, row rows.Row) (rows.Row, error) {
	return s.repomanager.Rows(s.db).Insert(ctx, table, row)
}

func (s *RowService) Update(ctx context.Context, table, column string, value any, changes rows.Row) ([]rows.Row, error) {
	return s.repomanager.Rows(s.db).Update(ctx, table, column, value, changes)
}

func (s *RowService) Delete(ctx context.Context, table, column string, value any) error {
	return s.repomanager.Rows(s.db).Delete(ctx, table, column, value)
}
