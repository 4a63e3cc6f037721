package client

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadResponse  = errors.New("malformed server response")
)

// ResponseError is a non-success auth response envelope.
type ResponseError struct {
	// Status is the transport status (HTTP status code); 0 for gRPC.
	Status int
	// Code and Msg come from the backend envelope.
	Code int
	Msg  string

	kind error
}

func (e *ResponseError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("server error %d: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("server error (status %d, code %d)", e.Status, e.Code)
}

func (e *ResponseError) Unwrap() error { return e.kind }

// ErrorText turns an auth client error into a message fit for the user.
func ErrorText(err error) string {
	var re *ResponseError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.As(err, &re) && re.Msg != "":
		return re.Msg
	case errors.Is(err, ErrUnauthorized):
		return "authentication failed"
	case errors.Is(err, ErrUnavailable):
		return "server unavailable, check your network connection"
	case errors.Is(err, ErrBadResponse):
		return "unexpected server response"
	case re != nil:
		return re.Error()
	default:
		return err.Error()
	}
}
