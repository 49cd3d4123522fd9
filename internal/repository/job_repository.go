package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// JobRepository handles job description data access.
type JobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

// GetByID retrieves a job by id.
func (r *JobRepository) GetByID(ctx context.Context, jobID int64) (*model.Job, error) {
	j := &model.Job{}
	err := r.pool.QueryRow(ctx,
		`SELECT job_id, title, company, num_questions, duration_minutes,
		        experience_min, experience_max,
		        COALESCE(description, ''), COALESCE(custom_prompt, ''),
		        schedule_start, schedule_end
		 FROM jobs
		 WHERE job_id = $1`, jobID,
	).Scan(&j.JobID, &j.Title, &j.Company, &j.NumQuestions, &j.DurationMinutes,
		&j.ExperienceMin, &j.ExperienceMax, &j.Description, &j.CustomPrompt,
		&j.ScheduleStart, &j.ScheduleEnd)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// ListRequiredSkills retrieves a job's required skills with priorities,
// highest priority first.
func (r *JobRepository) ListRequiredSkills(ctx context.Context, jobID int64) ([]model.RequiredSkill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.name, rs.priority
		 FROM required_skills rs
		 JOIN skills s ON s.skill_id = rs.skill_id
		 WHERE rs.job_id = $1
		 ORDER BY rs.priority DESC, s.name`, jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []model.RequiredSkill
	for rows.Next() {
		var rs model.RequiredSkill
		if err := rows.Scan(&rs.SkillName, &rs.Priority); err != nil {
			return nil, err
		}
		skills = append(skills, rs)
	}
	return skills, rows.Err()
}
