package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/carTloyal123/shoppi/internal/client/session"
	"github.com/carTloyal123/shoppi/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

var ErrNotSignedIn = errors.New("please sign in first")

// Session is the part of the session orchestrator the CLI drives.
type Session interface {
	RestoreSession(ctx context.Context) (*models.Session, error)
	SignUp(ctx context.Context, email, username, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	UpdateUsername(ctx context.Context, username string) (*models.User, error)
	Current() (*models.Session, session.State)
	Stale(now time.Time) bool
	Revalidate(ctx context.Context) error
}

// Shopping is the groups / lists / items surface.
type Shopping interface {
	AllGroups(ctx context.Context) ([]models.Group, error)
	GroupsForUser(ctx context.Context, userID int64) ([]models.UserGroup, error)
	CreateGroup(ctx context.Context, name string, ownerID int64) (*models.Group, error)
	DeleteGroup(ctx context.Context, groupID int64) error
	ListsForGroup(ctx context.Context, groupID int64) ([]models.ShoppingList, error)
	PersonalLists(ctx context.Context, userID int64) ([]models.ShoppingList, error)
	CreateList(ctx context.Context, name string, groupID, ownerID *int64) (*models.ShoppingList, error)
	Items(ctx context.Context, listID int64) ([]models.ListItem, error)
	AddItem(ctx context.Context, listID int64, name, description string, quantity int64) (*models.ListItem, error)
	SetPurchased(ctx context.Context, itemID int64, purchased bool, byUserID int64) (*models.ListItem, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	session  Session
	shopping Shopping
	pinger   Pinger
	logger   logging.Logger

	reader *bufio.Reader
	out    *syncWriter

	modeMu sync.RWMutex
	mode   Mode

	bg sync.WaitGroup
}

func NewApp(s Session, sh Shopping, p Pinger, l logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		session:  s,
		shopping: sh,
		pinger:   p,
		logger:   l.With("module", "cli"),
		reader:   bufio.NewReader(in),
		out:      &syncWriter{w: out},
	}
}

// syncWriter serializes writes from the REPL and background watchers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Run restores the session, starts the background watchers and blocks in
// the REPL until the user exits or input ends. A non-positive
// checkInterval disables the reachability watcher.
func (a *App) Run(ctx context.Context, checkInterval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.bg.Wait()
	}()

	a.println("Welcome to shoppi (type 'help' for commands)")
	a.restore(ctx)

	if checkInterval > 0 {
		a.bg.Add(1)
		go func() {
			defer a.bg.Done()
			a.StartOnlineStatusWatcher(ctx, checkInterval)
		}()
	}

	a.repl(ctx)
}

func (a *App) restore(ctx context.Context) {
	sess, err := a.session.RestoreSession(ctx)
	if err != nil {
		a.logger.Warn(ctx, "session restore failed", "error", err)
		return
	}
	if sess == nil {
		return
	}
	a.printf("Signed in as %s\n", sess.User.Username)

	if !a.session.Stale(time.Now()) {
		return
	}
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		if err := a.session.Revalidate(ctx); errors.Is(err, session.ErrSessionExpired) {
			a.println("\nYour session has expired, please sign in again.")
		}
	}()
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Debug(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the backend every interval and records
// whether it is reachable.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.pinger.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) currentUser() (*models.User, error) {
	sess, state := a.session.Current()
	if sess == nil || state != session.StateAuthenticated {
		return nil, ErrNotSignedIn
	}
	u := sess.User
	return &u, nil
}

func (a *App) status() string {
	s := ""
	if u, err := a.currentUser(); err == nil {
		s = u.Username
	}
	if m := a.Mode(); m != "" {
		if s != "" {
			s += " "
		}
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
