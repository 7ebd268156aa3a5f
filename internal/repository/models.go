package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

// ModelEntry is one row of the OpenAI model catalog the settings dialog
// offers.
type ModelEntry struct {
	ID          int
	ModelName   string
	Description string
}

// ModelRepository is the CRUD contract over the model catalog.
type ModelRepository interface {
	List(ctx context.Context) ([]ModelEntry, error)
	Add(ctx context.Context, name, description string) (int, error)
	Update(ctx context.Context, entry ModelEntry) error
	Delete(ctx context.Context, id int) error
	SeedDefaults(ctx context.Context) error
}

type modelRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewModelRepository(db *sql.DB, logger *slog.Logger) ModelRepository {
	return &modelRepository{db: db, logger: logger}
}

func (r *modelRepository) List(ctx context.Context) ([]ModelEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, model_name, description FROM openai_models ORDER BY id`)
	if err != nil {
		r.logger.Error("failed to list models", "error", err)
		return nil, err
	}
	defer rows.Close()

	var entries []ModelEntry
	for rows.Next() {
		var e ModelEntry
		if err := rows.Scan(&e.ID, &e.ModelName, &e.Description); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *modelRepository) Add(ctx context.Context, name, description string) (int, error) {
	id, err := nextID(ctx, r.db, "openai_models")
	if err != nil {
		return 0, err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO openai_models (id, model_name, description) VALUES (?, ?, ?)`,
		id, name, description)
	if err != nil {
		r.logger.Error("failed to add model", "name", name, "error", err)
		return 0, err
	}
	return id, nil
}

func (r *modelRepository) Update(ctx context.Context, entry ModelEntry) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE openai_models SET model_name = ?, description = ? WHERE id = ?`,
		entry.ModelName, entry.Description, entry.ID)
	if err != nil {
		r.logger.Error("failed to update model", "id", entry.ID, "error", err)
	}
	return err
}

func (r *modelRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM openai_models WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete model", "id", id, "error", err)
	}
	return err
}

// SeedDefaults installs the stock model choices on first run.
func (r *modelRepository) SeedDefaults(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM openai_models`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []ModelEntry{
		{ModelName: "gpt-4o", Description: "OpenAI GPT 4-Open, custom variant"},
		{ModelName: "gpt-4o-mini", Description: "OpenAI GPT 4-Open Mini variant"},
		{ModelName: "gpt-4-turbo", Description: "OpenAI GPT 4 Turbo variant"},
	}
	for _, e := range defaults {
		if _, err := r.Add(ctx, e.ModelName, e.Description); err != nil {
			return err
		}
	}
	r.logger.Info("seeded default models", "count", len(defaults))
	return nil
}
