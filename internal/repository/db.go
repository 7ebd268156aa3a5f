package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/c-trac/torquebench/internal/common"
)

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// Open opens (creating if needed) the embedded database file and applies
// the schema. The app runs single-user against a local file, so one
// connection is enough and avoids writer contention.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening database", "path", cfg.Path)

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, common.WrapError(err, "open database")
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, common.NewAppError("DB_UNAVAILABLE", "database ping failed", common.ErrDatabase)
	}
	if err := migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		_ = db.Close()
		return nil, common.WrapError(err, "migrate database")
	}

	logger.Info("database ready")
	return db, nil
}

// migrate creates the tables. Matching the original schema, there are no
// constraints beyond the primary keys; ids are generated manually as
// max(id)+1.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS torque_specs (
			id INTEGER PRIMARY KEY,
			max_torque REAL,
			unit TEXT,
			type TEXT,
			applied_torq TEXT,
			allowance1 TEXT,
			allowance2 TEXT,
			allowance3 TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS raw_readings (
			id INTEGER PRIMARY KEY,
			torque_value REAL,
			spec_id INTEGER,
			allowance_label TEXT,
			range_str TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			setting_key TEXT,
			setting_value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS openai_models (
			id INTEGER PRIMARY KEY,
			model_name TEXT,
			description TEXT
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database gracefully.
func Close(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database closed")
}
