// Package messaging connects to the real-time messaging backend.
//
// Connectors report the handshake result through a Callback, exactly one
// of OnSuccess, OnTokenIncorrect or OnError. Await folds that callback into
// a blocking call that resolves once.
package messaging

import (
	"context"
	"fmt"
)

// Callback receives the handshake result.
type Callback interface {
	// OnSuccess is called with the user id the messaging backend assigned
	// to the token.
	OnSuccess(userID string)
	// OnTokenIncorrect is called when the token is rejected or expired;
	// a fresh token has to be obtained from the auth backend.
	OnTokenIncorrect()
	// OnError is called for connectivity failures.
	OnError(code ErrorCode)
}

// Connector starts a handshake and reports through cb. Connect must not
// block on the network; implementations call cb from their own goroutine.
type Connector interface {
	Connect(ctx context.Context, token string, cb Callback)
}

// CallbackFuncs adapts plain functions to Callback. Nil fields are ignored.
type CallbackFuncs struct {
	Success        func(userID string)
	TokenIncorrect func()
	Error          func(code ErrorCode)
}

func (f CallbackFuncs) OnSuccess(userID string) {
	if f.Success != nil {
		f.Success(userID)
	}
}

func (f CallbackFuncs) OnTokenIncorrect() {
	if f.TokenIncorrect != nil {
		f.TokenIncorrect()
	}
}

func (f CallbackFuncs) OnError(code ErrorCode) {
	if f.Error != nil {
		f.Error(code)
	}
}

// ErrorCode identifies a messaging connection failure.
type ErrorCode int

const (
	CodeUnknown               ErrorCode = -1
	CodeNetChannelInvalid     ErrorCode = 30001
	CodeNetUnavailable        ErrorCode = 30002
	CodeMsgResponseTimeout    ErrorCode = 30003
	CodeConnAckTimeout        ErrorCode = 31000
	CodeConnProtoVersionError ErrorCode = 31001
	CodeConnIDRejected        ErrorCode = 31002
	CodeConnServerUnavailable ErrorCode = 31003
	CodeConnRedirected        ErrorCode = 31006
	CodeConnUserBlocked       ErrorCode = 31009
)

var codeNames = map[ErrorCode]string{
	CodeUnknown:               "UNKNOWN",
	CodeNetChannelInvalid:     "NET_CHANNEL_INVALID",
	CodeNetUnavailable:        "NET_UNAVAILABLE",
	CodeMsgResponseTimeout:    "MSG_RESPONSE_TIMEOUT",
	CodeConnAckTimeout:        "CONN_ACK_TIMEOUT",
	CodeConnProtoVersionError: "CONN_PROTO_VERSION_ERROR",
	CodeConnIDRejected:        "CONN_ID_REJECTED",
	CodeConnServerUnavailable: "CONN_SERVER_UNAVAILABLE",
	CodeConnRedirected:        "CONN_REDIRECTED",
	CodeConnUserBlocked:       "CONN_USER_BLOCKED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ERROR_%d", int(c))
}
