package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/skillbarter/internal/domain"
)

// PreferenceRepository implements domain.PreferenceRepository using SQLite.
type PreferenceRepository struct {
	db *sql.DB
}

func (r *PreferenceRepository) Get(ctx context.Context, accountID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE account_id = ? AND key = ?`,
		accountID, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("query preference: %w", err)
	}
	return value, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, accountID, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (account_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (account_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		accountID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}
