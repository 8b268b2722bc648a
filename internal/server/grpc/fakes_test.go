package grpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/carTloyal123/shoppi/internal/server/models"
	"github.com/carTloyal123/shoppi/internal/server/repositories/rows"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeAuth keeps identities and sessions in memory. Tokens are "tok-<n>".
type fakeAuth struct {
	mu        sync.Mutex
	passwords map[string]string
	sessions  map[string]*models.Session // by token
	seq       int
	storeErr  error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{passwords: map[string]string{}, sessions: map[string]*models.Session{}}
}

func (f *fakeAuth) issueLocked(email string) *models.IssuedSession {
	f.seq++
	tok := fmt.Sprintf("tok-%d", f.seq)
	s := &models.Session{ID: fmt.Sprintf("s-%d", f.seq), IdentityID: "id-" + email, Email: email, ExpiresAt: time.Now().Add(time.Hour).UTC()}
	f.sessions[tok] = s
	return &models.IssuedSession{AccessToken: tok, Session: *s}
}

func (f *fakeAuth) SignUp(_ context.Context, email, password string) (*models.IssuedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", common.ErrorValidation)
	}
	if _, ok := f.passwords[email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.passwords[email] = password
	return f.issueLocked(email), nil
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (*models.IssuedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.passwords[email]; !ok || pw != password {
		return nil, common.ErrorUnauthorized
	}
	return f.issueLocked(email), nil
}

func (f *fakeAuth) SignOut(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, s := range f.sessions {
		if s.ID == sessionID {
			delete(f.sessions, tok)
		}
	}
	return nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	s, ok := f.sessions[token]
	if !ok {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrSessionRevoked)
	}
	cp := *s
	return &cp, nil
}

// fakeRows records calls and serves canned results.
type fakeRows struct {
	mu       sync.Mutex
	last     []any
	selected []rows.Row
	err      error
}

func (f *fakeRows) record(args ...any) {
	f.mu.Lock()
	f.last = args
	f.mu.Unlock()
}

func (f *fakeRows) Select(_ context.Context, table, column string, value any) ([]rows.Row, error) {
	f.record(table, column, value)
	return f.selected, f.err
}

func (f *fakeRows) Insert(_ context.Context, table string, row rows.Row) (rows.Row, error) {
	f.record(table, row)
	if f.err != nil {
		return nil, f.err
	}
	out := rows.Row{"group_id": int64(41)}
	for k, v := range row {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRows) Update(_ context.Context, table, column string, value any, changes rows.Row) ([]rows.Row, error) {
	f.record(table, column, value, changes)
	return []rows.Row{changes}, f.err
}

func (f *fakeRows) Delete(_ context.Context, table, column string, value any) error {
	f.record(table, column, value)
	return f.err
}

var errBoom = errors.New("boom")
