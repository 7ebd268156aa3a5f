package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/c-trac/torquebench/internal/torque"
)

// SpecRepository is the row CRUD contract over the torque specification
// table.
type SpecRepository interface {
	List(ctx context.Context) ([]torque.Spec, error)
	Add(ctx context.Context, spec torque.Spec) (int, error)
	Update(ctx context.Context, spec torque.Spec) error
	Delete(ctx context.Context, id int) error
	SeedDefaults(ctx context.Context) error
}

type specRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSpecRepository(db *sql.DB, logger *slog.Logger) SpecRepository {
	return &specRepository{db: db, logger: logger}
}

func (r *specRepository) List(ctx context.Context) ([]torque.Spec, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, max_torque, unit, type, applied_torq, allowance1, allowance2, allowance3
		 FROM torque_specs ORDER BY id`)
	if err != nil {
		r.logger.Error("failed to list torque specs", "error", err)
		return nil, err
	}
	defer rows.Close()

	var specs []torque.Spec
	for rows.Next() {
		var s torque.Spec
		var applied string
		if err := rows.Scan(&s.ID, &s.MaxTorque, &s.Unit, &s.Type, &applied,
			&s.Allowances[0], &s.Allowances[1], &s.Allowances[2]); err != nil {
			return nil, err
		}
		// applied torques are stored as a JSON array string; a bad value
		// degrades to empty, same as the original form
		if err := json.Unmarshal([]byte(applied), &s.AppliedTorques); err != nil {
			s.AppliedTorques = nil
		}
		specs = append(specs, s)
	}
	return specs, rows.Err()
}

func (r *specRepository) Add(ctx context.Context, spec torque.Spec) (int, error) {
	id, err := nextID(ctx, r.db, "torque_specs")
	if err != nil {
		return 0, err
	}
	applied, err := json.Marshal(spec.AppliedTorques)
	if err != nil {
		return 0, err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO torque_specs (id, max_torque, unit, type, applied_torq, allowance1, allowance2, allowance3)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, spec.MaxTorque, spec.Unit, spec.Type, string(applied),
		spec.Allowances[0], spec.Allowances[1], spec.Allowances[2])
	if err != nil {
		r.logger.Error("failed to add torque spec", "error", err)
		return 0, err
	}
	return id, nil
}

func (r *specRepository) Update(ctx context.Context, spec torque.Spec) error {
	applied, err := json.Marshal(spec.AppliedTorques)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE torque_specs
		 SET max_torque = ?, unit = ?, type = ?, applied_torq = ?,
		     allowance1 = ?, allowance2 = ?, allowance3 = ?
		 WHERE id = ?`,
		spec.MaxTorque, spec.Unit, spec.Type, string(applied),
		spec.Allowances[0], spec.Allowances[1], spec.Allowances[2], spec.ID)
	if err != nil {
		r.logger.Error("failed to update torque spec", "id", spec.ID, "error", err)
	}
	return err
}

func (r *specRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM torque_specs WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete torque spec", "id", id, "error", err)
	}
	return err
}

// SeedDefaults inserts two sample specs when the table is empty so a
// fresh install has something to calibrate against.
func (r *specRepository) SeedDefaults(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM torque_specs`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []torque.Spec{
		{
			MaxTorque:      100,
			Unit:           "Nm",
			Type:           "Wrench",
			AppliedTorques: []float64{95, 65, 40},
			Allowances:     [3]string{"90.0 - 100.0", "60.0 - 70.0", "36.0 - 44.0"},
		},
		{
			MaxTorque:      200,
			Unit:           "Nm",
			Type:           "Torque Multiplier",
			AppliedTorques: []float64{60, 40, 20},
			Allowances:     [3]string{"57.6 - 62.4", "38.4 - 41.6", "19.2 - 20.8"},
		},
	}
	for _, s := range defaults {
		if _, err := r.Add(ctx, s); err != nil {
			return err
		}
	}
	r.logger.Info("seeded default torque specs", "count", len(defaults))
	return nil
}

func nextID(ctx context.Context, db *sql.DB, table string) (int, error) {
	var id int
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM `+table).Scan(&id)
	return id, err
}
