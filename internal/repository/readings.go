package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

// RawReading is one live gauge reading accepted during a test run.
type RawReading struct {
	ID             int
	TorqueValue    float64
	SpecID         int
	AllowanceLabel string
	RangeStr       string
}

// ReadingRepository persists raw test readings. It satisfies
// torque.ReadingRecorder.
type ReadingRepository interface {
	InsertReading(ctx context.Context, value float64, specID int, allowanceLabel, rangeStr string) error
	ListBySpec(ctx context.Context, specID int) ([]RawReading, error)
}

type readingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReadingRepository(db *sql.DB, logger *slog.Logger) ReadingRepository {
	return &readingRepository{db: db, logger: logger}
}

func (r *readingRepository) InsertReading(ctx context.Context, value float64, specID int, allowanceLabel, rangeStr string) error {
	id, err := nextID(ctx, r.db, "raw_readings")
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO raw_readings (id, torque_value, spec_id, allowance_label, range_str)
		 VALUES (?, ?, ?, ?, ?)`,
		id, value, specID, allowanceLabel, rangeStr)
	if err != nil {
		r.logger.Error("failed to insert reading", "spec_id", specID, "error", err)
	}
	return err
}

func (r *readingRepository) ListBySpec(ctx context.Context, specID int) ([]RawReading, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, torque_value, spec_id, allowance_label, range_str
		 FROM raw_readings WHERE spec_id = ? ORDER BY id`, specID)
	if err != nil {
		r.logger.Error("failed to list readings", "spec_id", specID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var readings []RawReading
	for rows.Next() {
		var rd RawReading
		if err := rows.Scan(&rd.ID, &rd.TorqueValue, &rd.SpecID, &rd.AllowanceLabel, &rd.RangeStr); err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, rows.Err()
}
