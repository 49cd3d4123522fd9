package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// ViolationRepository persists proctoring violations. Violations are written
// synchronously so they survive session expiry and deletion.
type ViolationRepository struct {
	pool *pgxpool.Pool
}

// NewViolationRepository creates a new ViolationRepository.
func NewViolationRepository(pool *pgxpool.Pool) *ViolationRepository {
	return &ViolationRepository{pool: pool}
}

// Create inserts a violation record and fills in its generated id.
func (r *ViolationRepository) Create(ctx context.Context, v *model.ProctoringViolation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO proctoring_violations (attempt_id, snapshot_path, violation_type, recorded_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING violation_id`,
		v.AttemptID, v.SnapshotPath, v.Type, v.Timestamp,
	).Scan(&v.ViolationID)
}

// ListByAttempt retrieves all violations recorded for an attempt.
func (r *ViolationRepository) ListByAttempt(ctx context.Context, attemptID int64) ([]model.ProctoringViolation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT violation_id, attempt_id, snapshot_path, violation_type, recorded_at
		 FROM proctoring_violations
		 WHERE attempt_id = $1
		 ORDER BY recorded_at`, attemptID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProctoringViolation
	for rows.Next() {
		var v model.ProctoringViolation
		if err := rows.Scan(&v.ViolationID, &v.AttemptID, &v.SnapshotPath, &v.Type, &v.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
