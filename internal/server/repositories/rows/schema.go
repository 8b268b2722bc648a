package rows

import (
	"fmt"
	"slices"
	"strings"

	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/jackc/pgx/v5"
)

// Table describes one allow-listed table. Columns are in select order and
// OrderBy keeps results stable.
type Table struct {
	Columns []string
	OrderBy string
	// ReadOnly columns are filled by the database and never written.
	ReadOnly []string
	// WriteOnce columns are set on insert and never updated.
	WriteOnce []string
	// Private columns are only returned on rows whose Owner column matches
	// the caller's email.
	Owner   string
	Private []string
}

var Schema = map[string]Table{
	"users": {
		Columns:   []string{"user_id", "email", "username", "password_hash", "created_at"},
		OrderBy:   "user_id",
		ReadOnly:  []string{"user_id", "created_at"},
		WriteOnce: []string{"password_hash"},
		Owner:     "email",
		Private:   []string{"password_hash"},
	},
	"groups": {
		Columns:  []string{"group_id", "group_name", "created_at"},
		OrderBy:  "group_id",
		ReadOnly: []string{"group_id", "created_at"},
	},
	"group_members": {
		Columns: []string{"group_id", "user_id", "role"},
		OrderBy: "group_id, user_id",
	},
	"shopping_lists": {
		Columns:  []string{"list_id", "list_name", "group_id", "user_id", "created_at"},
		OrderBy:  "list_id",
		ReadOnly: []string{"list_id", "created_at"},
	},
	"list_items": {
		Columns:  []string{"item_id", "list_id", "item_name", "item_description", "quantity", "is_purchased", "purchased_by", "created_at"},
		OrderBy:  "item_id",
		ReadOnly: []string{"item_id", "created_at"},
	},
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func lookup(table string) (Table, error) {
	t, ok := Schema[table]
	if !ok {
		return Table{}, invalid("unknown table %q", table)
	}
	return t, nil
}

func (t Table) has(column string) bool {
	return slices.Contains(t.Columns, column)
}

func (t Table) checkReadable(table, column string) error {
	if !t.has(column) {
		return invalid("unknown column %q on %s", column, table)
	}
	return nil
}

// writable returns row's column names, sorted, after checking each one.
// update rejects WriteOnce columns.
func (t Table) writable(table string, row Row, update bool) ([]string, error) {
	if len(row) == 0 {
		return nil, invalid("no columns to write on %s", table)
	}
	cols := make([]string, 0, len(row))
	for c := range row {
		if !t.has(c) {
			return nil, invalid("unknown column %q on %s", c, table)
		}
		if slices.Contains(t.ReadOnly, c) {
			return nil, invalid("column %q on %s is read-only", c, table)
		}
		if update && slices.Contains(t.WriteOnce, c) {
			return nil, invalid("column %q on %s cannot be changed", c, table)
		}
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols, nil
}

// Redact drops Private columns from rows of table that email does not own.
// Rows are modified in place.
func Redact(table, email string, rs []Row) []Row {
	t, ok := Schema[table]
	if !ok || len(t.Private) == 0 {
		return rs
	}
	for _, row := range rs {
		owner, _ := row[t.Owner].(string)
		if email != "" && strings.EqualFold(owner, email) {
			continue
		}
		for _, c := range t.Private {
			delete(row, c)
		}
	}
	return rs
}

func (t Table) selectList() string {
	return joinIdents(t.Columns)
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ident(n)
	}
	return strings.Join(quoted, ", ")
}
