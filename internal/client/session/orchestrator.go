// Package session owns the client's authentication lifecycle: restoring a
// cached session at start-up, sign-up, sign-in and logout.
//
// One Orchestrator is built at process start and handed to whoever needs
// the current user. Operations are single-flight: while one runs, any other
// fails fast with ErrOperationInProgress.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/carTloyal123/shoppi/internal/client/client"
	"github.com/carTloyal123/shoppi/internal/client/directory"
	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/cryptox"
	"github.com/carTloyal123/shoppi/internal/logging"
	"golang.org/x/sync/semaphore"
)

var (
	ErrOperationInProgress = errors.New("another session operation is in progress")
	ErrSessionExpired      = errors.New("session is no longer valid")
	ErrNotAuthenticated    = errors.New("not signed in")
)

// Directory is the profile lookup the orchestrator depends on.
type Directory interface {
	FetchByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email, username, digest string) (*models.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) (*models.User, error)
}

// Store is a failure-absorbing key/value store, see credstore.SafeStore.
type Store interface {
	Get(ctx context.Context, key string) []byte
	Put(ctx context.Context, key string, value []byte)
	Delete(ctx context.Context, key string)
}

type Orchestrator struct {
	gateway client.AuthGateway
	dir     Directory
	store   Store
	hasher  cryptox.Hasher
	logger  logging.Logger

	opTimeout         time.Duration
	verifyLocalDigest bool
	revalidateAfter   time.Duration
	now               func() time.Time

	flight *semaphore.Weighted

	mu      sync.RWMutex
	state   State
	current *models.Session
}

func New(gw client.AuthGateway, dir Directory, store Store, hasher cryptox.Hasher, l logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway:           gw,
		dir:               dir,
		store:             store,
		hasher:            hasher,
		logger:            l.With("module", "session"),
		opTimeout:         DefaultOperationTimeout,
		verifyLocalDigest: true,
		now:               time.Now,
		flight:            semaphore.NewWeighted(1),
		state:             StateUnknown,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Current returns a copy of the active session, or nil, with the state.
func (o *Orchestrator) Current() (*models.Session, State) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.current == nil {
		return nil, o.state
	}
	s := *o.current
	return &s, o.state
}

// Stale reports whether the active session is older than the revalidation
// window.
func (o *Orchestrator) Stale(now time.Time) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.current == nil || o.revalidateAfter <= 0 {
		return false
	}
	return now.Sub(o.current.SavedAt) > o.revalidateAfter
}

// begin claims the single-flight slot and moves to the transitional state.
// The returned stable state is where a failed operation goes back to.
func (o *Orchestrator) begin(ctx context.Context, transitional State) (context.Context, func(), State, error) {
	if !o.flight.TryAcquire(1) {
		return nil, nil, 0, ErrOperationInProgress
	}

	o.mu.Lock()
	prev := o.state
	if !prev.Stable() {
		prev = StateAnonymous
	}
	o.state = transitional
	o.mu.Unlock()

	cancel := func() {}
	if o.opTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, o.opTimeout)
	}
	return ctx, func() {
		cancel()
		o.flight.Release(1)
	}, prev, nil
}

func (o *Orchestrator) signedIn() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current != nil
}

func (o *Orchestrator) setState(s State, current *models.Session) {
	o.mu.Lock()
	o.state = s
	o.current = current
	o.mu.Unlock()
}

// RestoreSession loads the cached session. A present record is trusted
// without asking the backend; its token is re-armed on the gateway. A
// missing or unreadable record leaves the orchestrator Anonymous. Storage
// problems are never returned.
func (o *Orchestrator) RestoreSession(ctx context.Context) (*models.Session, error) {
	ctx, done, _, err := o.begin(ctx, StateRestoring)
	if err != nil {
		return nil, err
	}
	defer done()

	raw := o.store.Get(ctx, common.SessionStorageKey)
	if raw == nil {
		o.logger.Debug(ctx, "no cached session")
		o.setState(StateAnonymous, nil)
		return nil, nil
	}

	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil || sess.User.Email == "" || sess.Identity.ID == "" {
		o.logger.Warn(ctx, "discarding unreadable cached session", "error", err)
		o.store.Delete(context.WithoutCancel(ctx), common.SessionStorageKey)
		o.setState(StateAnonymous, nil)
		return nil, nil
	}

	o.gateway.SetAccessToken(sess.AccessToken)
	o.setState(StateAuthenticated, &sess)
	o.logger.Info(ctx, "session restored", "user_id", sess.User.ID, "saved_at", sess.SavedAt)

	out := sess
	return &out, nil
}

// SignUp registers email with the backend and makes sure a profile row
// exists for it. Repeating a sign-up returns the existing profile.
func (o *Orchestrator) SignUp(ctx context.Context, email, username, password string) (*models.User, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" || strings.TrimSpace(username) == "" {
		return nil, &client.AuthError{Op: "signup", Message: "email, username and password are required", Err: client.ErrInvalidInput}
	}

	ctx, done, prev, err := o.begin(ctx, StateAuthenticating)
	if err != nil {
		return nil, err
	}
	defer done()

	bs, err := o.registerBackend(ctx, email, password)
	if err != nil {
		o.fail(ctx, prev, nil)
		return nil, err
	}

	user, err := o.dir.FetchByEmail(ctx, email)
	switch {
	case err == nil:
		o.logger.Info(ctx, "profile already exists, reusing it", "user_id", user.ID)
	case errors.Is(err, directory.ErrNotFound):
		user, err = o.createProfile(ctx, email, username, password)
		if err != nil {
			o.fail(ctx, prev, bs)
			return nil, err
		}
	default:
		o.fail(ctx, prev, bs)
		return nil, err
	}

	o.establish(ctx, bs, user)
	return user, nil
}

// registerBackend signs email up. An identity the backend already knows is
// reconciled by signing in with the same credentials; if that fails too
// the original sign-up error is returned.
func (o *Orchestrator) registerBackend(ctx context.Context, email, password string) (*models.BackendSession, error) {
	bs, err := o.gateway.SignUp(ctx, email, password)
	if err == nil {
		return bs, nil
	}
	if !errors.Is(err, client.ErrAlreadyRegistered) {
		return nil, err
	}

	bs, inErr := o.gateway.SignIn(ctx, email, password)
	if inErr != nil {
		o.logger.Debug(ctx, "sign-in after duplicate sign-up failed", "error", inErr)
		return nil, err
	}
	o.logger.Info(ctx, "identity already registered, signed in instead")
	return bs, nil
}

// SignIn authenticates with the backend, resolves the profile row and then
// checks the password against the profile's stored digest.
func (o *Orchestrator) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, &client.AuthError{Op: "signin", Message: "email and password are required", Err: client.ErrInvalidInput}
	}

	ctx, done, prev, err := o.begin(ctx, StateAuthenticating)
	if err != nil {
		return nil, err
	}
	defer done()

	bs, err := o.authenticateBackend(ctx, email, password)
	if err != nil {
		o.fail(ctx, prev, nil)
		return nil, err
	}

	user, err := o.resolveProfile(ctx, email, password)
	if err != nil {
		o.fail(ctx, prev, bs)
		return nil, err
	}

	if o.verifyLocalDigest {
		if err := o.checkLocalDigest(user, password); err != nil {
			o.logger.Warn(ctx, "backend accepted credentials but profile digest does not match", "user_id", user.ID)
			o.fail(ctx, prev, bs)
			return nil, err
		}
	}

	o.establish(ctx, bs, user)
	return user, nil
}

func (o *Orchestrator) authenticateBackend(ctx context.Context, email, password string) (*models.BackendSession, error) {
	return o.gateway.SignIn(ctx, email, password)
}

// resolveProfile fetches the profile for an authenticated identity and
// recreates it when missing.
func (o *Orchestrator) resolveProfile(ctx context.Context, email, password string) (*models.User, error) {
	user, err := o.dir.FetchByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, directory.ErrNotFound) {
		return nil, err
	}

	o.logger.Warn(ctx, "authenticated identity has no profile row, recreating it", "email", email)
	return o.createProfile(ctx, email, common.EmailLocalPart(email), password)
}

func (o *Orchestrator) checkLocalDigest(user *models.User, password string) error {
	if o.hasher.Matches(password, user.PasswordHash) {
		return nil
	}
	return &client.AuthError{Op: "signin", Message: "invalid login credentials", Err: client.ErrInvalidCredentials}
}

func (o *Orchestrator) createProfile(ctx context.Context, email, username, password string) (*models.User, error) {
	digest, err := o.hasher.Digest(password)
	if err != nil {
		return nil, err
	}
	return o.dir.Create(ctx, email, username, digest)
}

// establish persists the session and moves to Authenticated. A session
// it replaces is signed out of the backend first.
func (o *Orchestrator) establish(ctx context.Context, bs *models.BackendSession, user *models.User) {
	sess := &models.Session{
		Identity:    bs.Identity,
		AccessToken: bs.AccessToken,
		User:        *user,
		SavedAt:     o.now().UTC(),
	}
	o.mu.RLock()
	prior := o.current
	o.mu.RUnlock()
	if prior != nil && prior.AccessToken != "" && prior.AccessToken != bs.AccessToken {
		o.gateway.SetAccessToken(prior.AccessToken)
		o.signOutQuietly(ctx)
		o.gateway.SetAccessToken(bs.AccessToken)
	}

	o.persist(ctx, sess)
	o.setState(StateAuthenticated, sess)
	o.logger.Info(ctx, "signed in", "user_id", user.ID)
}

func (o *Orchestrator) persist(ctx context.Context, sess *models.Session) {
	raw, err := json.Marshal(sess)
	if err != nil {
		o.logger.Error(ctx, "failed to encode session", "error", err)
		return
	}
	o.store.Put(context.WithoutCancel(ctx), common.SessionStorageKey, raw)
}

// fail returns to prev after an unsuccessful attempt. A backend session
// that was opened by the attempt is closed again, and the token of the
// session that was active before is re-armed.
func (o *Orchestrator) fail(ctx context.Context, prev State, opened *models.BackendSession) {
	if opened != nil {
		o.signOutQuietly(ctx)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if prev == StateAuthenticated && o.current != nil {
		o.gateway.SetAccessToken(o.current.AccessToken)
		o.state = StateAuthenticated
		return
	}
	o.state = StateAnonymous
	o.current = nil
}

func (o *Orchestrator) signOutQuietly(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := o.gateway.SignOut(ctx); err != nil {
		o.logger.Warn(ctx, "backend sign-out failed", "error", err)
	}
}

// Logout signs out of the backend (best-effort) and always clears the
// cached session.
func (o *Orchestrator) Logout(ctx context.Context) error {
	ctx, done, _, err := o.begin(ctx, StateLoggingOut)
	if err != nil {
		return err
	}
	defer done()

	o.signOutQuietly(ctx)
	o.store.Delete(context.WithoutCancel(ctx), common.SessionStorageKey)
	o.setState(StateAnonymous, nil)
	o.logger.Info(ctx, "logged out")
	return nil
}

// Revalidate asks the backend whether the active session is still live.
// A rejected session is dropped locally and ErrSessionExpired returned; an
// unreachable backend leaves the session in place. Without a session it
// returns ErrNotAuthenticated and leaves the state alone.
func (o *Orchestrator) Revalidate(ctx context.Context) error {
	if !o.signedIn() {
		return ErrNotAuthenticated
	}

	ctx, done, prev, err := o.begin(ctx, StateAuthenticated)
	if err != nil {
		return err
	}
	defer done()

	o.mu.RLock()
	cur := o.current
	o.mu.RUnlock()
	if cur == nil {
		o.setState(prev, nil)
		return nil
	}

	id, err := o.gateway.CurrentIdentity(ctx)
	switch {
	case err == nil && id.ID == cur.Identity.ID:
		refreshed := *cur
		refreshed.SavedAt = o.now().UTC()
		o.persist(ctx, &refreshed)
		o.setState(StateAuthenticated, &refreshed)
		return nil
	case err == nil:
		o.logger.Warn(ctx, "backend identity changed under cached session", "cached", cur.Identity.ID, "backend", id.ID)
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNoIdentity):
		o.logger.Warn(ctx, "cached session rejected by backend", "error", err)
	default:
		o.logger.Warn(ctx, "session revalidation skipped", "error", err)
		return err
	}

	o.gateway.SetAccessToken("")
	o.store.Delete(context.WithoutCancel(ctx), common.SessionStorageKey)
	o.setState(StateAnonymous, nil)
	return ErrSessionExpired
}

// UpdateUsername renames the signed-in user's profile and refreshes the
// cached session with the stored row.
func (o *Orchestrator) UpdateUsername(ctx context.Context, username string) (*models.User, error) {
	if !o.signedIn() {
		return nil, ErrNotAuthenticated
	}

	ctx, done, prev, err := o.begin(ctx, StateAuthenticated)
	if err != nil {
		return nil, err
	}
	defer done()

	o.mu.RLock()
	cur := o.current
	o.mu.RUnlock()
	if cur == nil {
		o.setState(prev, nil)
		return nil, ErrNotAuthenticated
	}

	u, err := o.dir.UpdateUsername(ctx, cur.User.ID, username)
	if err != nil {
		return nil, err
	}

	refreshed := *cur
	refreshed.User = *u
	o.persist(ctx, &refreshed)
	o.setState(StateAuthenticated, &refreshed)
	return u, nil
}
