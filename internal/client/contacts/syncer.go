package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	contactrepo "github.com/dmitrijs2005/gophchat/internal/client/repositories/contacts"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
)

// Source is the part of the auth client that lists the roster.
type Source interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
}

// Syncer replaces the local contacts table with the server's roster.
type Syncer struct {
	source Source
	db     *sql.DB
	now    func() time.Time
}

func NewSyncer(source Source, db *sql.DB) *Syncer {
	return &Syncer{source: source, db: db, now: time.Now}
}

// Sync fetches the roster and stores it. It returns the number of contacts
// stored.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	list, err := s.source.ListContacts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch contacts: %w", err)
	}

	stamp := s.now()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := contactrepo.NewSQLiteRepository(tx)
		for _, c := range list {
			if err := repo.Upsert(ctx, c, stamp); err != nil {
				return err
			}
		}
		_, err := repo.DeleteStale(ctx, stamp)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("store contacts: %w", err)
	}
	return len(list), nil
}

// List returns the locally stored roster.
func (s *Syncer) List(ctx context.Context) ([]models.Contact, error) {
	return contactrepo.NewSQLiteRepository(s.db).List(ctx)
}
