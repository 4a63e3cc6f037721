package session

import "errors"

var (
	ErrNoSession    = errors.New("no stored session")
	ErrWrongSecret  = errors.New("stored session cannot be opened with this secret")
	ErrNilUser      = errors.New("user is nil")
	ErrEmptyToken   = errors.New("session token is empty")
	ErrCorruptValue = errors.New("stored session value is corrupt")
)
