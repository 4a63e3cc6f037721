package login

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/messaging"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/logging"
)

func validResult() *models.AuthResult {
	return models.NewAuthResult(models.User{
		ID:             "u-1",
		Username:       "alice",
		MessagingToken: "im-token",
		SessionToken:   "session-token",
	})
}

// fakeAuth is a client.Client. When hold returns a channel for a call
// (numbered from 1), Login waits for it to close; with ignoreCtx it does so
// even after the context is done.
type fakeAuth struct {
	result    *models.AuthResult
	err       error
	delay     time.Duration
	hold      func(call int) <-chan struct{}
	ignoreCtx bool

	mu       sync.Mutex
	calls    int
	requests []map[string]string
}

func (f *fakeAuth) Login(ctx context.Context, request map[string]string) (*models.AuthResult, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.requests = append(f.requests, request)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.hold != nil {
		if release := f.hold(call); release != nil {
			if f.ignoreCtx {
				<-release
			} else {
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	return &r, nil
}

func (f *fakeAuth) Ping(ctx context.Context) error { return nil }
func (f *fakeAuth) Close() error                   { return nil }

// holdAll blocks every call on release.
func holdAll(release chan struct{}) func(int) <-chan struct{} {
	return func(int) <-chan struct{} { return release }
}

// holdFirst blocks only the first call on release.
func holdFirst(release chan struct{}) func(int) <-chan struct{} {
	return func(call int) <-chan struct{} {
		if call == 1 {
			return release
		}
		return nil
	}
}

func (f *fakeAuth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeConnector answers from its own goroutine after delay. A nil respond
// never calls back.
type fakeConnector struct {
	delay   time.Duration
	respond func(cb messaging.Callback)

	mu       sync.Mutex
	tokens   []string
	cbs      []messaging.Callback
	released []messaging.Callback
}

func (f *fakeConnector) Connect(ctx context.Context, token string, cb messaging.Callback) {
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	f.cbs = append(f.cbs, cb)
	f.mu.Unlock()

	if f.respond == nil {
		return
	}
	go func() {
		time.Sleep(f.delay)
		f.respond(cb)
	}()
}

func (f *fakeConnector) lastCallback() messaging.Callback {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.cbs) == 0 {
		return nil
	}
	return f.cbs[len(f.cbs)-1]
}

func (f *fakeConnector) connectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

func (f *fakeConnector) Release(cb messaging.Callback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, cb)
}

func (f *fakeConnector) releasedCallbacks() []messaging.Callback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]messaging.Callback(nil), f.released...)
}

func succeed(cb messaging.Callback) { cb.OnSuccess("im-u-1") }

// fakeStore records writes in order.
type fakeStore struct {
	userErr  error
	tokenErr error
	clearErr error

	mu     sync.Mutex
	writes []string
	user   *models.User
	token  string
}

func (s *fakeStore) SetCurrentUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userErr != nil {
		return s.userErr
	}
	s.writes = append(s.writes, "user:"+u.ID)
	s.user = u.Clone()
	return nil
}

func (s *fakeStore) SaveSessionToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokenErr != nil {
		return s.tokenErr
	}
	s.writes = append(s.writes, "token:"+token)
	s.token = token
	return nil
}

func (s *fakeStore) CurrentUser(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, session.ErrNoSession
	}
	return s.user.Clone(), nil
}

func (s *fakeStore) SessionToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", session.ErrNoSession
	}
	return s.token, nil
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearErr != nil {
		return s.clearErr
	}
	s.writes = append(s.writes, "clear")
	s.user, s.token = nil, ""
	return nil
}

func (s *fakeStore) writeLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

type countingTrigger struct {
	n atomic.Int32
}

func (c *countingTrigger) Trigger() { c.n.Add(1) }

// fakePresenter records callbacks; done is closed on the first terminal
// callback.
type fakePresenter struct {
	mu        sync.Mutex
	shown     int
	dismissed int
	users     []*models.User
	errors    []string

	once sync.Once
	done chan struct{}
}

func newFakePresenter() *fakePresenter {
	return &fakePresenter{done: make(chan struct{})}
}

func (p *fakePresenter) ShowProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown++
}

func (p *fakePresenter) DismissProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dismissed++
}

func (p *fakePresenter) LoginSuccess(u *models.User) {
	p.mu.Lock()
	p.users = append(p.users, u)
	p.mu.Unlock()
	p.once.Do(func() { close(p.done) })
}

func (p *fakePresenter) LoginError(message string) {
	p.mu.Lock()
	p.errors = append(p.errors, message)
	p.mu.Unlock()
	p.once.Do(func() { close(p.done) })
}

func (p *fakePresenter) progressCounts() (shown, dismissed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown, p.dismissed
}

func (p *fakePresenter) terminalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.users) + len(p.errors)
}

func (p *fakePresenter) wait(timeout time.Duration) error {
	select {
	case <-p.done:
		return nil
	case <-time.After(timeout):
		return errors.New("presenter got no terminal callback")
	}
}

type logEntry struct {
	level string
	msg   string
}

// recordingLogger keeps every message; onDebug, if set, runs for each Debug
// message outside the lock.
type recordingLogger struct {
	onDebug func(msg string)

	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.record("debug", msg)
	if l.onDebug != nil {
		l.onDebug(msg)
	}
}

func (l *recordingLogger) Info(ctx context.Context, msg string, args ...any) {
	l.record("info", msg)
}

func (l *recordingLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.record("warn", msg)
}

func (l *recordingLogger) Error(ctx context.Context, msg string, args ...any) {
	l.record("error", msg)
}

func (l *recordingLogger) With(args ...any) logging.Logger { return l }

func (l *recordingLogger) messages() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}
