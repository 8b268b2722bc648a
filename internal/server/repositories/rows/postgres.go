package rows

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/carTloyal123/shoppi/internal/dbx"
	"github.com/carTloyal123/shoppi/internal/server/repositories/pgerr"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Select(ctx context.Context, table, column string, value any) ([]Row, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}

	// an empty column selects the whole table
	if column == "" {
		query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`, t.selectList(), ident(table), t.OrderBy)
		rs, err := r.db.QueryContext(ctx, query)
		if err != nil {
			return nil, pgerr.Map(err)
		}
		return collect(rs)
	}

	if err := t.checkReadable(table, column); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		t.selectList(), ident(table), ident(column), t.OrderBy)

	rs, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return collect(rs)
}

func (r *PostgresRepository) Insert(ctx context.Context, table string, row Row) (Row, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}
	cols, err := t.writable(table, row, false)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		args[i] = row[c]
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		ident(table), joinIdents(cols), strings.Join(params, ", "), t.selectList())

	rs, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	out, err := collect(rs)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("db error: insert into %s returned no row", table)
	}
	return out[0], nil
}

func (r *PostgresRepository) Update(ctx context.Context, table, column string, value any, changes Row) ([]Row, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkReadable(table, column); err != nil {
		return nil, err
	}
	cols, err := t.writable(table, changes, true)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(cols)+1)
	sets := make([]string, len(cols))
	for i, c := range cols {
		args = append(args, changes[c])
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
	}
	args = append(args, value)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		ident(table), strings.Join(sets, ", "), ident(column), len(args), t.selectList())

	rs, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Map(err)
	}
	return collect(rs)
}

func (r *PostgresRepository) Delete(ctx context.Context, table, column string, value any) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	if err := t.checkReadable(table, column); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, ident(table), ident(column))
	if _, err := r.db.ExecContext(ctx, query, value); err != nil {
		return pgerr.Map(err)
	}
	return nil
}

// collect reads every row into a map and closes rs.
func collect(rs *sql.Rows) ([]Row, error) {
	defer rs.Close()

	cols, err := rs.Columns()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := make([]Row, 0)
	for rs.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, pgerr.Map(err)
	}
	return out, nil
}
