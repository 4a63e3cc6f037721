package login

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// State is the position of an attempt in the login flow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAuthenticating
	StateConnectingMessaging
	StatePersisting
	StateSucceeded
	StateFailed
)

var stateNames = [...]string{
	StateIdle:                "idle",
	StateValidating:          "validating",
	StateAuthenticating:      "authenticating",
	StateConnectingMessaging: "connecting_messaging",
	StatePersisting:          "persisting",
	StateSucceeded:           "succeeded",
	StateFailed:              "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// attempt is one orchestrated login. id is the generation it was started
// under; traceID only tags log lines.
type attempt struct {
	id      uint64
	traceID string
	ctx     context.Context
	cancel  context.CancelCauseFunc

	mu    sync.Mutex
	state State
}

func newAttempt(ctx context.Context, id uint64) *attempt {
	ctx, cancel := context.WithCancelCause(ctx)
	return &attempt{id: id, traceID: uuid.NewString(), ctx: ctx, cancel: cancel}
}

func (a *attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// advance moves the attempt forward. It fails once the attempt is terminal.
func (a *attempt) advance(to State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.terminal() {
		return false
	}
	a.state = to
	return true
}

// abort fails the attempt unless it already reached Persisting, which is the
// commit point.
func (a *attempt) abort() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.terminal() || a.state == StatePersisting {
		return false
	}
	a.state = StateFailed
	return true
}
