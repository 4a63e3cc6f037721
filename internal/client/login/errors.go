package login

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/client/messaging"
)

// Kind classifies a failed login attempt.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindMessagingAuth
	KindMessagingConnection
	KindTimeout
	KindPersistence
	KindCanceled
)

var kindNames = map[Kind]string{
	KindValidation:          "validation",
	KindAuth:                "auth",
	KindMessagingAuth:       "messaging auth",
	KindMessagingConnection: "messaging connection",
	KindTimeout:             "timeout",
	KindPersistence:         "persistence",
	KindCanceled:            "canceled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the failure outcome of an attempt. Message is the text shown to
// the user; Err keeps the underlying cause for errors.Is and logging.
type Error struct {
	Kind    Kind
	Message string
	// Code is set for KindMessagingConnection.
	Code messaging.ErrorCode
	Err  error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so the Err* values below can
// be used as targets.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrAuth                = &Error{Kind: KindAuth}
	ErrMessagingAuth       = &Error{Kind: KindMessagingAuth}
	ErrMessagingConnection = &Error{Kind: KindMessagingConnection}
	ErrTimeout             = &Error{Kind: KindTimeout}
	ErrPersistence         = &Error{Kind: KindPersistence}
	ErrCanceled            = &Error{Kind: KindCanceled}
)

// ErrSuperseded is returned to the caller of an attempt that was replaced by
// a newer one before it committed. Such attempts never reach the Presenter.
var ErrSuperseded = errors.New("login attempt superseded")

// errCeilingExceeded is the cancellation cause of an auto-login that ran
// past the gate ceiling.
var errCeilingExceeded = errors.New("login ceiling exceeded")

// KindOf returns the kind of a login error, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}
