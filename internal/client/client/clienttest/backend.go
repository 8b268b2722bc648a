// Package clienttest provides an in-memory client.Client for tests of the
// layers above the transport.
package clienttest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carTloyal123/shoppi/internal/client/client"
	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/google/uuid"
)

var primaryKeys = map[string]string{
	"users":          "user_id",
	"groups":         "group_id",
	"shopping_lists": "list_id",
	"list_items":     "item_id",
}

var uniqueColumns = map[string]string{
	"users": "email",
}

type identity struct {
	id       string
	password string
}

// Backend mimics the hosted backend: an auth sub-API plus a handful of
// tables with serial primary keys.
type Backend struct {
	mu sync.Mutex

	identities map[string]identity
	live       map[string]string // token -> email
	token      string
	tokenEmail string
	revoked    bool

	tables map[string][]client.Row
	nextID map[string]int64

	// Fail injects an error for an op: signup, signin, signout, identity,
	// select, insert, update, delete.
	Fail map[string]error
	// Gate, when set, holds SignUp and SignIn until it is closed or the
	// call's context ends.
	Gate chan struct{}

	Calls map[string]int
	// SignedOut lists the tokens that were armed when SignOut was called.
	SignedOut []string
}

var _ client.Client = (*Backend)(nil)

func New() *Backend {
	return &Backend{
		identities: make(map[string]identity),
		live:       make(map[string]string),
		tables:     make(map[string][]client.Row),
		nextID:     make(map[string]int64),
		Fail:       make(map[string]error),
		Calls:      make(map[string]int),
	}
}

// AddIdentity registers a backend identity without a profile row.
func (b *Backend) AddIdentity(email, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identities[email] = identity{id: uuid.NewString(), password: password}
}

// Revoke invalidates the current token server-side only.
func (b *Backend) Revoke() {
	b.mu.Lock()
	b.revoked = true
	b.mu.Unlock()
}

// Token returns the access token the backend currently considers armed.
func (b *Backend) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

// Rows returns a copy of every row in table.
func (b *Backend) Rows(table string) []client.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]client.Row, 0, len(b.tables[table]))
	for _, r := range b.tables[table] {
		out = append(out, copyRow(r))
	}
	return out
}

// Seed inserts row into table as-is, assigning a primary key if missing.
func (b *Backend) Seed(table string, row client.Row) client.Row {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertLocked(table, copyRow(row))
}

func (b *Backend) enter(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls[op]++
	return b.Fail[op]
}

func (b *Backend) wait(ctx context.Context) error {
	if b.Gate == nil {
		return nil
	}
	select {
	case <-b.Gate:
		return nil
	case <-ctx.Done():
		return &client.AuthError{Op: "wait", Message: ctx.Err().Error(), Err: client.ErrUnavailable}
	}
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (*models.BackendSession, error) {
	if err := b.enter("signup"); err != nil {
		return nil, err
	}
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.identities[email]; ok {
		return nil, &client.AuthError{Op: "signup", Message: "User already registered", Err: client.ErrAlreadyRegistered}
	}
	b.identities[email] = identity{id: uuid.NewString(), password: password}
	return b.issueLocked(email), nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*models.BackendSession, error) {
	if err := b.enter("signin"); err != nil {
		return nil, err
	}
	if err := b.wait(ctx); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.identities[email]
	if !ok || id.password != password {
		return nil, &client.AuthError{Op: "signin", Message: "Invalid login credentials", Err: client.ErrInvalidCredentials}
	}
	return b.issueLocked(email), nil
}

func (b *Backend) issueLocked(email string) *models.BackendSession {
	b.token = "tok-" + uuid.NewString()
	b.tokenEmail = email
	b.live[b.token] = email
	b.revoked = false
	return &models.BackendSession{
		AccessToken: b.token,
		ExpiresAt:   time.Now().Add(time.Hour),
		Identity:    models.Identity{ID: b.identities[email].id, Email: email},
	}
}

func (b *Backend) SignOut(ctx context.Context) error {
	err := b.enter("signout")

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token != "" {
		b.SignedOut = append(b.SignedOut, b.token)
		delete(b.live, b.token)
	}
	b.token = ""
	b.tokenEmail = ""
	return err
}

func (b *Backend) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	if err := b.enter("identity"); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token == "" {
		return nil, client.ErrNoIdentity
	}
	if b.revoked {
		return nil, &client.AuthError{Op: "identity", Message: "session revoked", Err: client.ErrUnauthorized}
	}
	return &models.Identity{ID: b.identities[b.tokenEmail].id, Email: b.tokenEmail}, nil
}

// SetAccessToken arms token. A token this backend issued is bound to its
// identity again; any other token keeps the most recent identity.
func (b *Backend) SetAccessToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
	if email, ok := b.live[token]; ok {
		b.tokenEmail = email
	}
}

func (b *Backend) Ping(ctx context.Context) error { return nil }
func (b *Backend) Close() error                  { return nil }

func (b *Backend) SelectEq(ctx context.Context, table, column string, value any) ([]client.Row, error) {
	if err := b.enter("select"); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []client.Row{}
	for _, r := range b.tables[table] {
		if column == "" || equal(r[column], value) {
			out = append(out, copyRow(r))
		}
	}
	return out, nil
}

func (b *Backend) InsertReturning(ctx context.Context, table string, row client.Row) (client.Row, error) {
	if err := b.enter("insert"); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if col, ok := uniqueColumns[table]; ok {
		for _, r := range b.tables[table] {
			if equal(r[col], row[col]) {
				return nil, &client.RowError{Op: "insert", Table: table, Message: "duplicate key value violates unique constraint", Err: client.ErrConflict}
			}
		}
	}
	return copyRow(b.insertLocked(table, copyRow(row))), nil
}

func (b *Backend) insertLocked(table string, row client.Row) client.Row {
	if pk, ok := primaryKeys[table]; ok {
		if _, set := row[pk]; !set {
			b.nextID[table]++
			row[pk] = b.nextID[table]
		}
	}
	b.tables[table] = append(b.tables[table], row)
	return row
}

func (b *Backend) UpdateEq(ctx context.Context, table, column string, value any, changes client.Row) ([]client.Row, error) {
	if err := b.enter("update"); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := []client.Row{}
	for _, r := range b.tables[table] {
		if equal(r[column], value) {
			for k, v := range changes {
				r[k] = v
			}
			out = append(out, copyRow(r))
		}
	}
	return out, nil
}

func (b *Backend) DeleteEq(ctx context.Context, table, column string, value any) error {
	if err := b.enter("delete"); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.tables[table][:0]
	for _, r := range b.tables[table] {
		if !equal(r[column], value) {
			kept = append(kept, r)
		}
	}
	b.tables[table] = kept
	return nil
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func copyRow(r client.Row) client.Row {
	out := make(client.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
