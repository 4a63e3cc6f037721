package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, c models.Contact, syncedAt time.Time) error {
	query := `INSERT INTO contacts (id, username, nickname, avatar_url, synced_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET username = excluded.username,
				nickname = excluded.nickname,
				avatar_url = excluded.avatar_url,
				synced_at = excluded.synced_at
	`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Username, c.Nickname, c.AvatarURL, syncedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert contact %s: %w", c.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteStale(ctx context.Context, syncedAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE synced_at < ?`, syncedAt.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete stale contacts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, nickname, avatar_url FROM contacts ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	defer rows.Close()

	var result []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Username, &c.Nickname, &c.AvatarURL); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
