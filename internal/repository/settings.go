package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

// SettingsRepository is the key-value settings contract the rest of the
// app consumes: API credentials, unit synonyms, export templates.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	GetOrDefault(ctx context.Context, key, def string) string
}

type settingsRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSettingsRepository(db *sql.DB, logger *slog.Logger) SettingsRepository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT setting_value FROM app_settings WHERE setting_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("failed to read setting", "key", key, "error", err)
		return "", false, err
	}
	return value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM app_settings WHERE setting_key = ?`, key).Scan(&exists)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO app_settings (setting_key, setting_value) VALUES (?, ?)`, key, value)
	case err == nil:
		_, err = r.db.ExecContext(ctx,
			`UPDATE app_settings SET setting_value = ? WHERE setting_key = ?`, value, key)
	}
	if err != nil {
		r.logger.Error("failed to write setting", "key", key, "error", err)
	}
	return err
}

// GetOrDefault is the common read path: missing keys and read errors both
// resolve to the supplied default.
func (r *settingsRepository) GetOrDefault(ctx context.Context, key, def string) string {
	v, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return def
	}
	return v
}
