package rows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var groupCols = []string{"group_id", "group_name", "created_at"}

func TestSelect(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT "group_id", "group_name", "created_at" FROM "groups" WHERE "group_id" = $1 ORDER BY group_id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(groupCols).AddRow(int64(7), []byte("Flat"), now))

	got, err := repo.Select(context.Background(), "groups", "group_id", int64(7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0]["group_id"])
	assert.Equal(t, "Flat", got[0]["group_name"], "bytes come back as text")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_NoRowsIsEmptySlice(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT "group_id", "user_id", "role" FROM "group_members" WHERE "user_id" = $1 ORDER BY group_id, user_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"group_id", "user_id", "role"}))

	got, err := repo.Select(context.Background(), "group_members", "user_id", int64(1))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelect_RejectsUnknownNames(t *testing.T) {
	repo, _ := newRepoWithMock(t)
	ctx := context.Background()

	_, err := repo.Select(ctx, "pg_shadow", "usename", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = repo.Select(ctx, "groups", "1=1; --", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestInsert(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO "list_items" ("is_purchased", "item_name", "list_id") VALUES ($1, $2, $3) RETURNING "item_id", "list_id", "item_name", "item_description", "quantity", "is_purchased", "purchased_by", "created_at"`).
		WithArgs(false, "Milk", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "list_id", "item_name", "item_description", "quantity", "is_purchased", "purchased_by", "created_at"}).
			AddRow(int64(1), int64(3), "Milk", nil, nil, false, nil, time.Now()))

	got, err := repo.Insert(context.Background(), "list_items", Row{"list_id": int64(3), "item_name": "Milk", "is_purchased": false})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got["item_id"])
	assert.Nil(t, got["item_description"])
}

func TestInsert_Violations(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()

	q := `INSERT INTO "users" ("email", "password_hash", "username") VALUES ($1, $2, $3) RETURNING "user_id", "email", "username", "password_hash", "created_at"`
	mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})
	_, err := repo.Insert(ctx, "users", Row{"email": "a@x.com", "username": "a", "password_hash": "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	q = `INSERT INTO "group_members" ("group_id", "role", "user_id") VALUES ($1, $2, $3) RETURNING "group_id", "user_id", "role"`
	mock.ExpectQuery(q).WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key"})
	_, err = repo.Insert(ctx, "group_members", Row{"group_id": int64(9), "user_id": int64(1), "role": "owner"})
	assert.ErrorIs(t, err, common.ErrorConstraint)
}

func TestInsert_RejectsReadOnlyAndEmpty(t *testing.T) {
	repo, _ := newRepoWithMock(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "groups", Row{"group_id": 1, "group_name": "x"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = repo.Insert(ctx, "groups", Row{})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE "users" SET "username" = $1 WHERE "user_id" = $2 RETURNING "user_id", "email", "username", "password_hash", "created_at"`).
		WithArgs("bob", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "username", "password_hash", "created_at"}).
			AddRow(int64(4), "b@x.com", "bob", "h", time.Now()))

	got, err := repo.Update(context.Background(), "users", "user_id", int64(4), Row{"username": "bob"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0]["username"])
}

func TestUpdate_PasswordHashIsWriteOnce(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, "users", "email", "b@x.com", Row{"password_hash": "mine now"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = repo.Update(ctx, "users", "email", "b@x.com", Row{"username": "bob", "password_hash": "x"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	mock.ExpectQuery(`INSERT INTO "users" ("email", "password_hash", "username") VALUES ($1, $2, $3) RETURNING "user_id", "email", "username", "password_hash", "created_at"`).
		WithArgs("b@x.com", "h", "bob").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "email", "username", "password_hash", "created_at"}).
			AddRow(int64(4), "b@x.com", "bob", "h", time.Now()))

	got, err := repo.Insert(ctx, "users", Row{"email": "b@x.com", "username": "bob", "password_hash": "h"})
	require.NoError(t, err)
	assert.Equal(t, "h", got["password_hash"])
}

func TestRedact(t *testing.T) {
	rs := []Row{
		{"user_id": int64(1), "email": "a@x.com", "username": "alice", "password_hash": "ha"},
		{"user_id": int64(2), "email": "B@x.com", "username": "bob", "password_hash": "hb"},
	}

	got := Redact("users", "b@x.com", rs)
	require.Len(t, got, 2)
	assert.NotContains(t, got[0], "password_hash")
	assert.Equal(t, "alice", got[0]["username"])
	assert.Equal(t, "hb", got[1]["password_hash"])

	anon := Redact("users", "", []Row{{"email": "", "password_hash": "h"}})
	assert.NotContains(t, anon[0], "password_hash")

	groups := Redact("groups", "a@x.com", []Row{{"group_id": int64(1), "group_name": "Home"}})
	assert.Equal(t, "Home", groups[0]["group_name"])
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM "groups" WHERE "group_id" = $1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "groups", "group_id", int64(2)))

	mock.ExpectExec(`DELETE FROM "groups" WHERE "group_id" = $1`).
		WillReturnError(errors.New("conn reset"))
	err := repo.Delete(context.Background(), "groups", "group_id", int64(3))
	assert.EqualError(t, err, "db error: conn reset")
}

func TestSelect_EmptyColumnSelectsAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT "group_id", "group_name", "created_at" FROM "groups" ORDER BY group_id`).
		WillReturnRows(sqlmock.NewRows(groupCols).
			AddRow(int64(1), "A", time.Now()).
			AddRow(int64(2), "B", time.Now()))

	got, err := repo.Select(context.Background(), "groups", "", nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
