package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/carTloyal123/shoppi/internal/client/client"
	"github.com/carTloyal123/shoppi/internal/client/client/clienttest"
	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectory(t *testing.T) (*Directory, *clienttest.Backend) {
	t.Helper()
	b := clienttest.New()
	return New(b, logging.Discard()), b
}

func TestFetchByEmail_NotFoundIsDistinct(t *testing.T) {
	d, _ := newDirectory(t)

	u, err := d.FetchByEmail(context.Background(), "nobody@x.com")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrNotFound)

	var de *DirectoryError
	assert.False(t, errors.As(err, &de), "not found must not be reported as a directory failure")
}

func TestFetchByEmail_TransportError(t *testing.T) {
	d, b := newDirectory(t)
	b.Fail["select"] = &client.RowError{Op: "select", Table: "users", Err: client.ErrUnavailable}

	_, err := d.FetchByEmail(context.Background(), "a@x.com")
	var de *DirectoryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "fetch", de.Op)
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCreateThenFetch_NormalisesEmail(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	created, err := d.Create(ctx, "  A@X.com ", "alice", "digest")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, "alice", created.Username)
	assert.NotZero(t, created.ID)

	got, err := d.FetchByEmail(ctx, "a@x.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "digest", got.PasswordHash)

	byID, err := d.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
}

func TestCreate_DoesNotDeduplicate(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	_, err := d.Create(ctx, "a@x.com", "alice", "digest")
	require.NoError(t, err)

	_, err = d.Create(ctx, "a@x.com", "alice2", "digest")
	var de *DirectoryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "create", de.Op)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, client.ErrConflict)
}

func TestCreate_RejectsEmptyFields(t *testing.T) {
	d, b := newDirectory(t)

	_, err := d.Create(context.Background(), "a@x.com", "  ", "digest")
	assert.ErrorIs(t, err, client.ErrInvalidInput)
	assert.Zero(t, b.Calls["insert"])
}

func TestExists(t *testing.T) {
	d, b := newDirectory(t)
	ctx := context.Background()

	ok, err := d.Exists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.Create(ctx, "a@x.com", "alice", "digest")
	require.NoError(t, err)

	ok, err = d.Exists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	b.Fail["select"] = errors.New("network down")
	_, err = d.Exists(ctx, "a@x.com")
	assert.Error(t, err)
}

func TestUpdateUsername(t *testing.T) {
	d, _ := newDirectory(t)
	ctx := context.Background()

	u, err := d.Create(ctx, "a@x.com", "alice", "digest")
	require.NoError(t, err)

	updated, err := d.UpdateUsername(ctx, u.ID, " ally ")
	require.NoError(t, err)
	assert.Equal(t, "ally", updated.Username)
	assert.Equal(t, u.ID, updated.ID)

	_, err = d.UpdateUsername(ctx, 999, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.UpdateUsername(ctx, u.ID, "")
	assert.ErrorIs(t, err, client.ErrInvalidInput)
}
