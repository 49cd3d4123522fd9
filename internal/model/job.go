package model

import "time"

// Job is a recruiter-defined position with the parameters that shape its
// assessment.
type Job struct {
	JobID           int64      `json:"job_id"`
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	NumQuestions    int        `json:"num_questions"`
	DurationMinutes int        `json:"duration_minutes"`
	ExperienceMin   *float64   `json:"experience_min"`
	ExperienceMax   *float64   `json:"experience_max"`
	Description     string     `json:"description"`
	CustomPrompt    string     `json:"custom_prompt"`
	ScheduleStart   *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd     *time.Time `json:"schedule_end,omitempty"`
}

// RequiredSkill is one skill a job tests, weighted by priority. Higher
// priority skills are served first and receive a larger share of the
// question budget.
type RequiredSkill struct {
	SkillName string `json:"skill"`
	Priority  int    `json:"priority"`
}
