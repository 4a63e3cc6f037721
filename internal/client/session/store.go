// Package session persists the signed-in user and the session token between
// runs. SetCurrentUser and SaveSessionToken are last-writer-wins and atomic
// per key.
package session

import (
	"context"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

type Store interface {
	SetCurrentUser(ctx context.Context, u *models.User) error
	SaveSessionToken(ctx context.Context, token string) error

	// CurrentUser and SessionToken return ErrNoSession when nothing is stored.
	CurrentUser(ctx context.Context) (*models.User, error)
	SessionToken(ctx context.Context) (string, error)

	// Clear removes the user and the token together.
	Clear(ctx context.Context) error
}

const (
	keyCurrentUser  = "current_user"
	keySessionToken = "session_token"
	keySalt         = "kdf_salt"
)
