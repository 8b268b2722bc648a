// Package rows is the generic row API over the allow-listed shopping
// tables. Rows travel as column-name maps.
package rows

import "context"

type Row = map[string]any

type Repository interface {
	Select(ctx context.Context, table, column string, value any) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Update(ctx context.Context, table, column string, value any, changes Row) ([]Row, error)
	Delete(ctx context.Context, table, column string, value any) error
}
