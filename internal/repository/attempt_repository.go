package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// AttemptRepository handles assessment attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// GetByID retrieves an attempt by its identifier.
func (r *AttemptRepository) GetByID(ctx context.Context, attemptID int64) (*model.AssessmentAttempt, error) {
	a := &model.AssessmentAttempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT attempt_id, candidate_id, job_id, start_time, end_time, status, performance_log
		 FROM assessment_attempts
		 WHERE attempt_id = $1`, attemptID,
	).Scan(&a.AttemptID, &a.CandidateID, &a.JobID, &a.StartTime, &a.EndTime, &a.Status, &a.PerformanceLog)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Complete marks an attempt completed and stores the final report.
func (r *AttemptRepository) Complete(ctx context.Context, attemptID int64, performanceLog json.RawMessage, endTime time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE assessment_attempts
		 SET status = $1, performance_log = $2, end_time = $3
		 WHERE attempt_id = $4`,
		model.AttemptStatusCompleted, performanceLog, endTime, attemptID)
	return err
}

// ListCompletedByCandidate retrieves all completed attempts for a candidate,
// joined with the job headline for display.
func (r *AttemptRepository) ListCompletedByCandidate(ctx context.Context, candidateID int64) ([]CompletedAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.attempt_id, a.job_id, j.title, j.company, a.start_time, a.status
		 FROM assessment_attempts a
		 JOIN jobs j ON j.job_id = a.job_id
		 WHERE a.candidate_id = $1 AND a.status = 'completed'
		 ORDER BY a.start_time DESC`, candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompletedAttempt
	for rows.Next() {
		var ca CompletedAttempt
		if err := rows.Scan(&ca.AttemptID, &ca.JobID, &ca.JobTitle, &ca.Company, &ca.AttemptDate, &ca.Status); err != nil {
			return nil, err
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

// CompletedAttempt combines an attempt with its job headline.
type CompletedAttempt struct {
	AttemptID   int64               `json:"attempt_id"`
	JobID       int64               `json:"job_id"`
	JobTitle    string              `json:"job_title"`
	Company     string              `json:"company"`
	AttemptDate time.Time           `json:"attempt_date"`
	Status      model.AttemptStatus `json:"status"`
}
