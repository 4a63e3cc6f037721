package messaging

import (
	"errors"
	"fmt"
)

// ErrTokenIncorrect is returned by Await when the backend rejects the token.
var ErrTokenIncorrect = errors.New("im token error")

// ConnectionError is returned by Await for OnError results.
type ConnectionError struct {
	Code ErrorCode
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("im connection error: %s", e.Code)
}
