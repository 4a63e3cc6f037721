package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/login"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// ContactLister reads the locally synced roster.
type ContactLister interface {
	List(ctx context.Context) ([]models.Contact, error)
}

// Disconnector ends the messaging session on logout.
type Disconnector interface {
	Disconnect()
}

// Deps are the collaborators of an App. Build assembles them from config.
type Deps struct {
	Config       *config.Config
	Auth         client.Client
	Orchestrator *login.Orchestrator
	Store        session.Store
	Contacts     ContactLister
	Messaging    Disconnector
	Logger       logging.Logger
	In           io.Reader
	Out          io.Writer
}

type App struct {
	config    *config.Config
	auth      client.Client
	orch      *login.Orchestrator
	store     session.Store
	contacts  ContactLister
	messaging Disconnector
	logger    logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time

	mu   sync.Mutex
	mode Mode
	user *models.User
}

func NewApp(d Deps) *App {
	return &App{
		config:    d.Config,
		auth:      d.Auth,
		orch:      d.Orchestrator,
		store:     d.Store,
		contacts:  d.Contacts,
		messaging: d.Messaging,
		logger:    d.Logger,
		reader:    bufio.NewReader(d.In),
		out:       d.Out,
		now:       time.Now,
	}
}

// Run restores a stored session if there is one, then serves the REPL
// until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophchat CLI (type 'help' for commands)")

	if _, err := a.Resume(ctx); err != nil {
		a.logger.Error(ctx, "resume failed", "error", err)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

func (a *App) setUser(u *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = u
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.user != nil {
		s = displayName(a.user) + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the auth backend every interval and flips
// the mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := a.auth.Ping(ctx)
	if err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)
	return nil
}
