package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: "request timed out"},
		{name: "canceled", err: context.Canceled, want: "request canceled"},
		{name: "server message wins", err: &ResponseError{Code: 210, Msg: "password mismatch", kind: ErrUnauthorized}, want: "password mismatch"},
		{name: "response without message", err: &ResponseError{Status: 418, Code: 7}, want: "server error (status 418, code 7)"},
		{name: "unauthorized", err: ErrUnauthorized, want: "authentication failed"},
		{name: "unavailable wrapped", err: fmt.Errorf("%w: dial tcp", ErrUnavailable), want: "server unavailable, check your network connection"},
		{name: "bad response", err: ErrBadResponse, want: "unexpected server response"},
		{name: "other", err: errors.New("boom"), want: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorText(tt.err))
		})
	}
}

func TestResponseError_Unwrap(t *testing.T) {
	err := &ResponseError{Status: 401, kind: ErrUnauthorized}
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "server error (status 401, code 0)", err.Error())
	assert.Equal(t, "server error 3: nope", (&ResponseError{Code: 3, Msg: "nope"}).Error())
}
