// Package common defines shared constants and sentinel errors used across
// the client layers of gophchat. Callers should use errors.Is to match these
// values.
package common

import "errors"

// ErrorNotFound is returned by repositories for a missing row.
var ErrorNotFound = errors.New("not found")
