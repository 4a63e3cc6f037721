package messaging

import (
	"context"
	"sync"
)

type result struct {
	userID string
	err    error
}

// promise is a Callback that resolves once; later invocations are dropped.
type promise struct {
	once sync.Once
	done chan result
}

func newPromise() *promise {
	return &promise{done: make(chan result, 1)}
}

func (p *promise) resolve(r result) bool {
	resolved := false
	p.once.Do(func() {
		p.done <- r
		resolved = true
	})
	return resolved
}

func (p *promise) OnSuccess(userID string) { p.resolve(result{userID: userID}) }
func (p *promise) OnTokenIncorrect()       { p.resolve(result{err: ErrTokenIncorrect}) }
func (p *promise) OnError(code ErrorCode)  { p.resolve(result{err: &ConnectionError{Code: code}}) }

// Releaser is implemented by connectors that keep a session open after a
// successful handshake. Release ends the session established through cb;
// it is a no-op once a later Connect or Disconnect has replaced it.
type Releaser interface {
	Release(cb Callback)
}

// Await runs c.Connect and blocks until the first callback or until ctx is
// done. It returns the remote user id, ErrTokenIncorrect, a
// *ConnectionError, or the context's cause.
func Await(ctx context.Context, c Connector, token string) (string, error) {
	userID, _, err := AwaitSession(ctx, c, token)
	return userID, err
}

// AwaitSession is Await that also returns a release func for the session
// it established. Release is safe to call more than once and does nothing
// when c is not a Releaser.
func AwaitSession(ctx context.Context, c Connector, token string) (string, func(), error) {
	p := newPromise()
	c.Connect(ctx, token, p)

	select {
	case r := <-p.done:
		if r.err != nil {
			return "", nil, r.err
		}
		return r.userID, releaseFunc(c, p), nil
	case <-ctx.Done():
		// a callback racing with cancellation is discarded
		p.resolve(result{err: context.Cause(ctx)})
		return "", nil, context.Cause(ctx)
	}
}

func releaseFunc(c Connector, cb Callback) func() {
	r, ok := c.(Releaser)
	if !ok {
		return func() {}
	}
	var once sync.Once
	return func() { once.Do(func() { r.Release(cb) }) }
}
