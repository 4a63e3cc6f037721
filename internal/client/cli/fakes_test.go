package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/login"
	"github.com/dmitrijs2005/gophchat/internal/client/messaging"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/logging"
)

type fakeAuth struct {
	err     error
	pingErr error

	mu       sync.Mutex
	requests []map[string]string
}

func (f *fakeAuth) Login(ctx context.Context, request map[string]string) (*models.AuthResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, request)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return models.NewAuthResult(models.User{
		ID:             "u-1",
		Username:       "alice",
		Nickname:       "Al",
		MessagingToken: "im-token",
		SessionToken:   "fresh-token",
	}), nil
}

func (f *fakeAuth) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeAuth) Close() error                   { return nil }

func (f *fakeAuth) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeConnector struct {
	mu           sync.Mutex
	disconnected int
}

func (f *fakeConnector) Connect(ctx context.Context, token string, cb messaging.Callback) {
	go cb.OnSuccess("im-u-1")
}

func (f *fakeConnector) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected++
}

type memStore struct {
	mu    sync.Mutex
	user  *models.User
	token string
}

func (s *memStore) SetCurrentUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u.Clone()
	return nil
}

func (s *memStore) SaveSessionToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memStore) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, session.ErrNoSession
	}
	return s.user.Clone(), nil
}

func (s *memStore) SessionToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", session.ErrNoSession
	}
	return s.token, nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = nil, ""
	return nil
}

type fakeContacts struct {
	list []models.Contact
	err  error
}

func (f *fakeContacts) List(ctx context.Context) ([]models.Contact, error) {
	return f.list, f.err
}

type harness struct {
	app   *App
	auth  *fakeAuth
	conn  *fakeConnector
	store *memStore
	out   *bytes.Buffer
}

// newHarness builds an App around a real orchestrator with a fast gate.
// input is what the user types.
func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	fakeTerminal(t, false, nil, nil)

	h := &harness{
		auth:  &fakeAuth{},
		conn:  &fakeConnector{},
		store: &memStore{},
		out:   &bytes.Buffer{},
	}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.OnlineCheckInterval = time.Hour

	orch := login.New(h.auth, h.conn, h.store, login.WithGate(login.NewGate(0, time.Second)))
	h.app = NewApp(Deps{
		Config:       cfg,
		Auth:         h.auth,
		Orchestrator: orch,
		Store:        h.store,
		Contacts:     &fakeContacts{},
		Messaging:    h.conn,
		Logger:       logging.Noop(),
		In:           strings.NewReader(input),
		Out:          h.out,
	})
	return h
}
