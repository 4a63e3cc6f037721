package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/cryptox"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
)

const saltSize = 16

// SQLiteStore keeps the session in the metadata table. When opened with a
// secret, values are sealed with cryptox under a key derived from it.
type SQLiteStore struct {
	db   *sql.DB
	repo metadata.Repository
	key  []byte
}

type SQLiteOption func(ctx context.Context, s *SQLiteStore) error

// WithSecret enables at-rest sealing. The salt is created on first use and
// stored next to the values.
func WithSecret(secret string) SQLiteOption {
	return func(ctx context.Context, s *SQLiteStore) error {
		salt, err := s.repo.Get(ctx, keySalt)
		if errors.Is(err, common.ErrorNotFound) {
			salt = common.GenerateRandByteArray(saltSize)
			err = s.repo.Set(ctx, keySalt, salt)
		}
		if err != nil {
			return fmt.Errorf("load salt: %w", err)
		}

		s.key = cryptox.DeriveKey([]byte(secret), salt)
		return nil
	}
}

// NewSQLiteStore expects a migrated database.
func NewSQLiteStore(ctx context.Context, db *sql.DB, opts ...SQLiteOption) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db, repo: metadata.NewSQLiteRepository(db)}
	for _, opt := range opts {
		if err := opt(ctx, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *SQLiteStore) SetCurrentUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return ErrNilUser
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.put(ctx, keyCurrentUser, data)
}

func (s *SQLiteStore) SaveSessionToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	return s.put(ctx, keySessionToken, []byte(token))
}

func (s *SQLiteStore) CurrentUser(ctx context.Context) (*models.User, error) {
	data, err := s.get(ctx, keyCurrentUser)
	if err != nil {
		return nil, err
	}

	u := &models.User{}
	if err := json.Unmarshal(data, u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptValue, err)
	}
	return u, nil
}

func (s *SQLiteStore) SessionToken(ctx context.Context) (string, error) {
	data, err := s.get(ctx, keySessionToken)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Delete(ctx, keyCurrentUser, keySessionToken)
	})
}

func (s *SQLiteStore) put(ctx context.Context, key string, value []byte) error {
	if s.key != nil {
		sealed, err := cryptox.Seal(value, s.key)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		value = sealed
	}
	return s.repo.Set(ctx, key, value)
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.repo.Get(ctx, key)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	if s.key == nil {
		return value, nil
	}
	plain, err := cryptox.Open(value, s.key)
	if err != nil {
		return nil, ErrWrongSecret
	}
	return plain, nil
}
