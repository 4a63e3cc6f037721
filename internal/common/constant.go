// Package common contains shared constants and sentinel errors used across
// gophchat client components.
package common

// SessionTokenHeaderName is the gRPC/HTTP metadata key used to carry the
// session token on outbound requests once a login has succeeded.
const SessionTokenHeaderName = "x-session-token"

// Request map keys understood by the auth backend.
const (
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeySessionToken = "sessionToken"
)
