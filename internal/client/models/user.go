// Package models defines client-side data models shared by the gophchat
// auth client, session store and login orchestrator.
package models

import (
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// User is the logged-in user record. It carries the identity, profile and
// both tokens issued by the auth backend.
type User struct {
	// ID is the backend object id.
	ID string `json:"objectId"`

	Username  string `json:"username"`
	Nickname  string `json:"nickname,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
	Email     string `json:"email,omitempty"`

	// MessagingToken authenticates the messaging connection for this user.
	MessagingToken string `json:"imToken"`

	// SessionToken re-authenticates the user silently on next start.
	SessionToken string `json:"sessionToken"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a copy that callers may mutate freely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// AuthResult is the decoded success payload of an auth call.
type AuthResult struct {
	User           User
	MessagingToken string
	SessionToken   string
}

// NewAuthResult lifts the tokens out of the user record as returned by the
// backend. The record itself is returned with both tokens populated.
func NewAuthResult(u User) *AuthResult {
	return &AuthResult{User: u, MessagingToken: u.MessagingToken, SessionToken: u.SessionToken}
}

// Credentials is a username/password pair. It is never persisted.
type Credentials struct {
	Username string
	Password string
}

// Request builds the auth request map for a password login.
func (c Credentials) Request() map[string]string {
	return map[string]string{
		common.KeyUsername: c.Username,
		common.KeyPassword: c.Password,
	}
}

// SessionTokenRequest builds the auth request map for a token login.
func SessionTokenRequest(token string) map[string]string {
	return map[string]string{common.KeySessionToken: token}
}
