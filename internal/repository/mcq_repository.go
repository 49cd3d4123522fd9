package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// MCQRepository handles stored multiple-choice question data access.
type MCQRepository struct {
	pool *pgxpool.Pool
}

// NewMCQRepository creates a new MCQRepository.
func NewMCQRepository(pool *pgxpool.Pool) *MCQRepository {
	return &MCQRepository{pool: pool}
}

// ListByJob retrieves all questions authored for a job, joined with their
// skill names.
func (r *MCQRepository) ListByJob(ctx context.Context, jobID int64) ([]model.MCQ, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.mcq_id, m.job_id, s.name, m.question,
		        m.option_a, m.option_b, m.option_c, m.option_d,
		        m.correct_answer, m.difficulty_band
		 FROM mcqs m
		 JOIN skills s ON s.skill_id = m.skill_id
		 WHERE m.job_id = $1`, jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mcqs []model.MCQ
	for rows.Next() {
		var m model.MCQ
		if err := rows.Scan(&m.MCQID, &m.JobID, &m.SkillName, &m.Question,
			&m.OptionA, &m.OptionB, &m.OptionC, &m.OptionD,
			&m.CorrectAnswer, &m.Band); err != nil {
			return nil, err
		}
		mcqs = append(mcqs, m)
	}
	return mcqs, rows.Err()
}

// SkillIDsByName resolves skill names to their ids.
func (r *MCQRepository) SkillIDsByName(ctx context.Context, names []string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT skill_id, name FROM skills WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]int64, len(names))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

// CreateBatch bulk inserts questions using the binary copy protocol.
func (r *MCQRepository) CreateBatch(ctx context.Context, mcqs []model.MCQ) (int64, error) {
	if len(mcqs) == 0 {
		return 0, nil
	}
	names := make([]string, 0, len(mcqs))
	seen := make(map[string]struct{}, len(mcqs))
	for _, m := range mcqs {
		if _, ok := seen[m.SkillName]; !ok {
			seen[m.SkillName] = struct{}{}
			names = append(names, m.SkillName)
		}
	}
	skillIDs, err := r.SkillIDsByName(ctx, names)
	if err != nil {
		return 0, err
	}

	rows := make([][]any, 0, len(mcqs))
	for _, m := range mcqs {
		skillID, ok := skillIDs[m.SkillName]
		if !ok {
			return 0, fmt.Errorf("unknown skill %q", m.SkillName)
		}
		rows = append(rows, []any{
			m.MCQID, m.JobID, skillID, m.Question,
			m.OptionA, m.OptionB, m.OptionC, m.OptionD,
			m.CorrectAnswer, m.Band,
		})
	}

	return r.pool.CopyFrom(ctx,
		pgx.Identifier{"mcqs"},
		[]string{"mcq_id", "job_id", "skill_id", "question",
			"option_a", "option_b", "option_c", "option_d",
			"correct_answer", "difficulty_band"},
		pgx.CopyFromRows(rows))
}

// Create inserts a single question. Used as a fallback when a batch copy
// fails and rows must be retried individually.
func (r *MCQRepository) Create(ctx context.Context, m *model.MCQ) error {
	skillIDs, err := r.SkillIDsByName(ctx, []string{m.SkillName})
	if err != nil {
		return err
	}
	skillID, ok := skillIDs[m.SkillName]
	if !ok {
		return fmt.Errorf("unknown skill %q", m.SkillName)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO mcqs (mcq_id, job_id, skill_id, question,
		                   option_a, option_b, option_c, option_d,
		                   correct_answer, difficulty_band)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (mcq_id) DO NOTHING`,
		m.MCQID, m.JobID, skillID, m.Question,
		m.OptionA, m.OptionB, m.OptionC, m.OptionD,
		m.CorrectAnswer, m.Band)
	return err
}
