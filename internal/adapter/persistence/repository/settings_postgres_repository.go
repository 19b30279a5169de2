package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mystery_boxes/internal/dbx"
	"mystery_boxes/internal/domain/entities"
	"mystery_boxes/internal/usecase/interfaces"
)

// SettingsPostgresRepository persists Setting rows in the settings table.

type SettingsPostgresRepository struct {
	db dbx.DBTX
}

var _ interfaces.ISettingsRepository = (*SettingsPostgresRepository)(nil)

func NewSettingsPostgresRepository(db dbx.DBTX) *SettingsPostgresRepository {
	return &SettingsPostgresRepository{db: db}
}

func (r *SettingsPostgresRepository) Get(ctx context.Context, key string) (entities.Setting, error) {
	var s entities.Setting
	err := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = $1`, key,
	).Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entities.Setting{}, nil
		}
		return entities.Setting{}, fmt.Errorf("select setting: %w", err)
	}
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

func (r *SettingsPostgresRepository) Upsert(ctx context.Context, key string, value float64, now time.Time) (entities.Setting, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, value, now.UTC(),
	)
	if err != nil {
		return entities.Setting{}, fmt.Errorf("upsert setting: %w", err)
	}
	return entities.Setting{Key: key, Value: value, UpdatedAt: now.UTC()}, nil
}
