package client

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

// Client is the auth backend contract used by the login orchestrator.
//
// Login accepts either {"username","password"} or {"sessionToken"} and
// returns the decoded user record with its messaging and session tokens.
type Client interface {
	Login(ctx context.Context, request map[string]string) (*models.AuthResult, error)
	Ping(ctx context.Context) error
	Close() error
}
