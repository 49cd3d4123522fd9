package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// CandidateRepository handles candidate data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// GetByID retrieves a candidate by id.
func (r *CandidateRepository) GetByID(ctx context.Context, candidateID int64) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx,
		`SELECT candidate_id, name, COALESCE(years_of_experience, 0), COALESCE(profile_picture, '')
		 FROM candidates
		 WHERE candidate_id = $1`, candidateID,
	).Scan(&c.CandidateID, &c.Name, &c.YearsOfExperience, &c.ProfilePicture)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListSkills retrieves a candidate's declared skill proficiencies.
func (r *CandidateRepository) ListSkills(ctx context.Context, candidateID int64) ([]model.CandidateSkill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.name, cs.proficiency
		 FROM candidate_skills cs
		 JOIN skills s ON s.skill_id = cs.skill_id
		 WHERE cs.candidate_id = $1`, candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var skills []model.CandidateSkill
	for rows.Next() {
		var cs model.CandidateSkill
		if err := rows.Scan(&cs.SkillName, &cs.Proficiency); err != nil {
			return nil, err
		}
		skills = append(skills, cs)
	}
	return skills, rows.Err()
}
