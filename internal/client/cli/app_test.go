package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carTloyal123/shoppi/internal/client/client/clienttest"
	"github.com/carTloyal123/shoppi/internal/client/credstore"
	"github.com/carTloyal123/shoppi/internal/client/directory"
	"github.com/carTloyal123/shoppi/internal/client/session"
	"github.com/carTloyal123/shoppi/internal/client/shopping"
	"github.com/carTloyal123/shoppi/internal/cryptox"
	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapHash = cryptox.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type harness struct {
	backend *clienttest.Backend
	store   *credstore.SafeStore
	orch    *session.Orchestrator
	shop    *shopping.Service
}

func newHarness(t *testing.T, opts ...session.Option) *harness {
	t.Helper()

	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("pw123"), nil }

	l := logging.Discard()
	h := &harness{
		backend: clienttest.New(),
		store:   credstore.NewSafeStore(credstore.NewMemoryStore(), l),
	}
	h.orch = h.session(opts...)
	h.shop = shopping.New(h.backend, l)
	return h
}

// session builds an orchestrator over the harness backend and store, as a
// fresh process would.
func (h *harness) session(opts ...session.Option) *session.Orchestrator {
	l := logging.Discard()
	return session.New(h.backend, directory.New(h.backend, l), h.store, cryptox.NewArgon2Hasher(cheapHash), l, opts...)
}

func (h *harness) run(t *testing.T, s Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(s, h.shop, h.backend, logging.Discard(), strings.NewReader(input), &out)
	app.Run(context.Background(), 0)
	return out.String()
}

func TestRun_SignUpAndShop(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, h.orch, strings.Join([]string{
		"signup", "a@x.com", "alice",
		"whoami",
		"addgroup Flat mates",
		"groups",
		"groups all",
		"addlist Weekly 1",
		"lists 1",
		"additem 1 Oat milk", "2 litres",
		"items 1",
		"purchase 1",
		"items 1",
		"purchase 1 undo",
		"exit",
	}, "\n")+"\n")

	assert.Contains(t, out, "Welcome, alice!")
	assert.Contains(t, out, "alice <a@x.com>")
	assert.Contains(t, out, `Created group "Flat mates" (id 1)`)
	assert.Contains(t, out, "Flat mates")
	assert.Contains(t, out, "owner")
	assert.Contains(t, out, "1  Flat mates\n")
	assert.Contains(t, out, `Created list "Weekly" (id 1)`)
	assert.Contains(t, out, "1\tWeekly")
	assert.Contains(t, out, `Added "Oat milk" (id 1)`)
	assert.Contains(t, out, "1 [ ] Oat milk x1")
	assert.Contains(t, out, `Marked "Oat milk" as purchased`)
	assert.Contains(t, out, "1 [x] Oat milk x1")
	assert.Contains(t, out, `Marked "Oat milk" as not purchased`)
	assert.Contains(t, out, "shoppi (alice)> ")
	assert.Contains(t, out, "Bye!")

	items := h.backend.Rows("list_items")
	require.Len(t, items, 1)
	assert.Equal(t, "2 litres", items[0]["item_description"])
}

func TestRun_RestoresSessionAcrossRestarts(t *testing.T) {
	h := newHarness(t)

	h.run(t, h.orch, "signup\na@x.com\nalice\nexit\n")

	out := h.run(t, h.session(), "whoami\nlogout\nwhoami\n")
	assert.Contains(t, out, "Signed in as alice")
	assert.Contains(t, out, "Signed out")
	assert.Contains(t, out, "Not signed in (anonymous)")

	out = h.run(t, h.session(), "whoami\n")
	assert.Contains(t, out, "Not signed in")
}

func TestRun_ErrorsAreNotFatal(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, h.orch, strings.Join([]string{
		"groups",
		"bogus",
		"rename",
		"signin", "nobody@x.com",
		"items abc",
		"help",
	}, "\n")+"\n")

	assert.Contains(t, out, "Error: "+ErrNotSignedIn.Error())
	assert.Contains(t, out, "Unknown command: bogus")
	assert.Contains(t, out, "Usage: rename <username>")
	assert.Contains(t, out, "nvalid login credentials")
	assert.Contains(t, out, "Available commands:")
	assert.Equal(t, session.StateAnonymous, h.orch.State())
}

func TestRun_Rename(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, h.orch, "signup\na@x.com\nalice\nrename Alice Smith\nwhoami\n")
	assert.Contains(t, out, "Username changed to Alice Smith")
	assert.Contains(t, out, "Alice Smith <a@x.com>")
}

func TestRun_PersonalLists(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, h.orch, "signup\na@x.com\nalice\nlists\naddlist Hardware store\nlists\n")
	assert.Contains(t, out, "No lists")
	assert.Contains(t, out, `Created list "Hardware store" (id 1)`)
	assert.Contains(t, out, "1\tHardware store")
}

func TestRun_StaleSessionIsRevalidated(t *testing.T) {
	h := newHarness(t)
	h.run(t, h.orch, "signup\na@x.com\nalice\n")

	h.backend.Revoke()
	restarted := h.session(session.WithRevalidateAfter(time.Nanosecond))

	out := h.run(t, restarted, "")
	assert.Contains(t, out, "Your session has expired")
	assert.Equal(t, session.StateAnonymous, restarted.State())
}

type flakyPinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (p *flakyPinger) Ping(context.Context) error {
	p.calls.Add(1)
	if p.fail.Load() {
		return errors.New("unreachable")
	}
	return nil
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	p := &flakyPinger{}
	app := NewApp(nil, nil, p, logging.Discard(), strings.NewReader(""), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	p.fail.Store(true)
	require.Eventually(t, func() bool { return app.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
