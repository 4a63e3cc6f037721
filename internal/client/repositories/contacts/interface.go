package contacts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
)

type Repository interface {
	// Upsert inserts c or updates it by ID, stamping it with syncedAt.
	Upsert(ctx context.Context, c models.Contact, syncedAt time.Time) error

	// DeleteStale removes contacts stamped before syncedAt and returns how
	// many were removed.
	DeleteStale(ctx context.Context, syncedAt time.Time) (int64, error)

	// List returns all contacts ordered by username.
	List(ctx context.Context) ([]models.Contact, error)
}
