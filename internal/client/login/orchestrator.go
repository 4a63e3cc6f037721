// Package login orchestrates a sign-in: credentials or a stored session
// token go to the auth backend, the returned messaging token is used for
// the messaging handshake, and only when both succeed is the session
// persisted and the contact sync triggered.
//
// Login and AutoLogin are blocking. Submit and Resume run them in the
// background and report to a Presenter, exactly one terminal callback per
// attempt. Starting an attempt supersedes the previous one; a superseded
// attempt is canceled and its outcome is dropped. A messaging session opened
// by an attempt that does not end in success is released.
package login

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/contacts"
	"github.com/dmitrijs2005/gophchat/internal/client/messaging"
	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/logging"
)

// Presenter is the view side of a login. Every ShowProgress is matched by
// one DismissProgress, also for an attempt whose outcome is dropped.
type Presenter interface {
	ShowProgress()
	DismissProgress()
	LoginSuccess(u *models.User)
	LoginError(message string)
}

type Orchestrator struct {
	auth      client.Client
	connector messaging.Connector
	store     session.Store
	contacts  contacts.Trigger
	gate      *Gate
	logger    logging.Logger

	gen     atomic.Uint64
	mu      sync.Mutex
	current *attempt

	// persistMu keeps the user/token pair of one attempt from interleaving
	// with another's.
	persistMu sync.Mutex
}

type Option func(*Orchestrator)

func WithGate(g *Gate) Option {
	return func(o *Orchestrator) { o.gate = g }
}

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithContactSync(t contacts.Trigger) Option {
	return func(o *Orchestrator) { o.contacts = t }
}

func New(auth client.Client, connector messaging.Connector, store session.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		auth:      auth,
		connector: connector,
		store:     store,
		contacts:  contacts.Nop,
		gate:      NewGate(DefaultFloor, DefaultCeiling),
		logger:    logging.Noop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Login signs in with a username and password. No timing gate applies;
// bound it with ctx if needed.
func (o *Orchestrator) Login(ctx context.Context, username, password string) (*models.User, error) {
	a := o.begin(ctx)
	defer a.cancel(nil)
	return o.login(a, username, password)
}

// AutoLogin signs in with a stored session token. A success is not returned
// before the gate floor, and the attempt fails with KindTimeout at the
// ceiling.
func (o *Orchestrator) AutoLogin(ctx context.Context, sessionToken string) (*models.User, error) {
	a := o.begin(ctx)
	defer a.cancel(nil)
	return o.autoLogin(a, sessionToken)
}

// Submit runs Login in the background and reports to p.
func (o *Orchestrator) Submit(ctx context.Context, p Presenter, username, password string) {
	a := o.begin(ctx)
	p.ShowProgress()
	go func() {
		defer a.cancel(nil)
		u, err := o.login(a, username, password)
		o.deliver(a, p, u, err)
	}()
}

// Resume runs AutoLogin in the background and reports to p.
func (o *Orchestrator) Resume(ctx context.Context, p Presenter, sessionToken string) {
	a := o.begin(ctx)
	p.ShowProgress()
	go func() {
		defer a.cancel(nil)
		u, err := o.autoLogin(a, sessionToken)
		o.deliver(a, p, u, err)
	}()
}

// Cancel aborts the current attempt, if any, unless it is already
// persisting.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		o.current.cancel(context.Canceled)
	}
}

func (o *Orchestrator) begin(ctx context.Context) *attempt {
	o.mu.Lock()
	defer o.mu.Unlock()

	a := newAttempt(ctx, o.gen.Add(1))
	if prev := o.current; prev != nil {
		if prev.abort() {
			o.logger.Debug(ctx, "login attempt superseded", "attempt", prev.id, "trace_id", prev.traceID)
		}
		prev.cancel(ErrSuperseded)
	}
	o.current = a
	return a
}

func (o *Orchestrator) isCurrent(a *attempt) bool {
	return o.gen.Load() == a.id
}

func (o *Orchestrator) login(a *attempt, username, password string) (*models.User, error) {
	o.transition(a, StateValidating)
	if strings.TrimSpace(username) == "" {
		return nil, o.fail(a, validationError("username required"))
	}
	if strings.TrimSpace(password) == "" {
		return nil, o.fail(a, validationError("password required"))
	}

	if !o.transition(a, StateAuthenticating) {
		return nil, ErrSuperseded
	}
	creds := models.Credentials{Username: username, Password: password}
	res, err := o.auth.Login(a.ctx, creds.Request())
	if err != nil {
		return nil, o.fail(a, o.authError(a.ctx, err))
	}

	return o.postAuth(a, a.ctx, res)
}

type outcome struct {
	user *models.User
	err  error
}

func (o *Orchestrator) autoLogin(a *attempt, sessionToken string) (*models.User, error) {
	start := o.gate.Now()

	o.transition(a, StateValidating)
	if strings.TrimSpace(sessionToken) == "" {
		return nil, o.fail(a, validationError("session token required"))
	}

	ctx, cancel := context.WithDeadlineCause(a.ctx, o.gate.Deadline(start), errCeilingExceeded)
	defer cancel()

	results := make(chan outcome, 1)
	go func() {
		u, err := o.autoLoginPipeline(ctx, a, start, sessionToken)
		results <- outcome{user: u, err: err}
	}()

	select {
	case r := <-results:
		return r.user, r.err
	case <-ctx.Done():
		if a.abort() {
			err := interruption(ctx)
			o.logOutcome(a, err)
			return nil, err
		}
		// committed or already finished
		r := <-results
		return r.user, r.err
	}
}

func (o *Orchestrator) autoLoginPipeline(ctx context.Context, a *attempt, start time.Time, sessionToken string) (*models.User, error) {
	if !o.transition(a, StateAuthenticating) {
		return nil, ErrSuperseded
	}
	res, err := o.auth.Login(ctx, models.SessionTokenRequest(sessionToken))
	if err != nil {
		return nil, o.fail(a, o.authError(ctx, err))
	}

	if o.gate.Exceeded(start, o.gate.Delay(start)) {
		return nil, o.fail(a, timeoutError(errCeilingExceeded))
	}
	if err := o.gate.Wait(ctx, start); err != nil {
		return nil, o.fail(a, interruption(ctx))
	}

	return o.postAuth(a, ctx, res)
}

func (o *Orchestrator) postAuth(a *attempt, ctx context.Context, res *models.AuthResult) (*models.User, error) {
	if !o.transition(a, StateConnectingMessaging) {
		return nil, ErrSuperseded
	}

	imUserID, release, err := messaging.AwaitSession(ctx, o.connector, res.MessagingToken)
	if err != nil {
		if ctx.Err() != nil {
			return nil, o.fail(a, interruption(ctx))
		}
		return nil, o.fail(a, messagingError(err))
	}
	o.logger.Debug(ctx, "messaging connected", "attempt", a.id, "trace_id", a.traceID, "im_user_id", imUserID)

	if !o.commit(a) {
		release()
		return nil, ErrSuperseded
	}

	u := res.User.Clone()
	if err := o.persist(context.WithoutCancel(ctx), u, res.SessionToken); err != nil {
		release()
		return nil, o.fail(a, &Error{Kind: KindPersistence, Message: "failed to save session", Err: err})
	}
	o.contacts.Trigger()

	o.transition(a, StateSucceeded)
	o.logOutcome(a, nil)
	return u.Clone(), nil
}

// commit enters Persisting unless the attempt was superseded or timed out.
// After this point the attempt can no longer be aborted.
func (o *Orchestrator) commit(a *attempt) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current == a && o.transition(a, StatePersisting)
}

func (o *Orchestrator) persist(ctx context.Context, u *models.User, sessionToken string) error {
	o.persistMu.Lock()
	defer o.persistMu.Unlock()

	if err := o.store.SetCurrentUser(ctx, u); err != nil {
		return err
	}
	if err := o.store.SaveSessionToken(ctx, sessionToken); err != nil {
		// no half-written session: the user record goes with the token
		if cerr := o.store.Clear(ctx); cerr != nil {
			return errors.Join(err, cerr)
		}
		return err
	}
	return nil
}

func (o *Orchestrator) transition(a *attempt, to State) bool {
	if !a.advance(to) {
		return false
	}
	o.logger.Debug(a.ctx, "login state", "attempt", a.id, "trace_id", a.traceID, "state", to)
	return true
}

// fail moves a to Failed and returns err, or ErrSuperseded if the attempt
// is no longer the one being tracked.
func (o *Orchestrator) fail(a *attempt, err error) error {
	if errors.Is(err, ErrSuperseded) || !o.isCurrent(a) || !o.transition(a, StateFailed) {
		return ErrSuperseded
	}
	o.logOutcome(a, err)
	return err
}

func (o *Orchestrator) deliver(a *attempt, p Presenter, u *models.User, err error) {
	if errors.Is(err, ErrSuperseded) || !o.isCurrent(a) {
		o.logger.Debug(a.ctx, "login outcome dropped", "attempt", a.id, "trace_id", a.traceID)
		p.DismissProgress()
		return
	}

	p.DismissProgress()
	if err != nil {
		p.LoginError(err.Error())
		return
	}
	p.LoginSuccess(u)
}

func (o *Orchestrator) logOutcome(a *attempt, err error) {
	if errors.Is(err, ErrSuperseded) {
		o.logger.Debug(a.ctx, "login superseded", "attempt", a.id, "trace_id", a.traceID)
		return
	}
	if err == nil {
		o.logger.Info(a.ctx, "login succeeded", "attempt", a.id, "trace_id", a.traceID)
		return
	}
	o.logger.Info(a.ctx, "login failed", "attempt", a.id, "trace_id", a.traceID, "kind", KindOf(err), "error", err)
}

func (o *Orchestrator) authError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return interruption(ctx)
	}
	return &Error{Kind: KindAuth, Message: client.ErrorText(err), Err: err}
}

func messagingError(err error) *Error {
	var ce *messaging.ConnectionError
	switch {
	case errors.Is(err, messaging.ErrTokenIncorrect):
		return &Error{Kind: KindMessagingAuth, Message: err.Error(), Err: err}
	case errors.As(err, &ce):
		return &Error{Kind: KindMessagingConnection, Message: ce.Code.String(), Code: ce.Code, Err: err}
	default:
		return &Error{Kind: KindMessagingConnection, Message: messaging.CodeUnknown.String(), Code: messaging.CodeUnknown, Err: err}
	}
}

// interruption turns the cause of a done context into the attempt outcome.
func interruption(ctx context.Context) error {
	cause := context.Cause(ctx)
	switch {
	case errors.Is(cause, ErrSuperseded):
		return ErrSuperseded
	case errors.Is(cause, errCeilingExceeded), errors.Is(cause, context.DeadlineExceeded):
		return timeoutError(cause)
	default:
		return &Error{Kind: KindCanceled, Message: "login canceled", Err: cause}
	}
}

func timeoutError(cause error) *Error {
	return &Error{Kind: KindTimeout, Message: "login timed out", Err: cause}
}
