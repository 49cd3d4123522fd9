package model

import (
	"encoding/json"
	"time"
)

// AttemptStatus enumerates assessment attempt states.
type AttemptStatus string

const (
	AttemptStatusStarted   AttemptStatus = "started"
	AttemptStatusCompleted AttemptStatus = "completed"
)

// AssessmentAttempt is one candidate's instance of taking one job's
// assessment. PerformanceLog is populated at finalization with the per-skill
// report plus the embedded proctoring block.
type AssessmentAttempt struct {
	AttemptID      int64           `json:"attempt_id"`
	CandidateID    int64           `json:"candidate_id"`
	JobID          int64           `json:"job_id"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        *time.Time      `json:"end_time,omitempty"`
	Status         AttemptStatus   `json:"status"`
	PerformanceLog json.RawMessage `json:"performance_log,omitempty"`
}

// CompletionReport is the payload returned by both termination paths and by
// the results endpoint.
type CompletionReport struct {
	Message         string                       `json:"message"`
	CandidateReport map[string]*SkillPerformance `json:"candidate_report"`
	Proctoring      ProctoringData               `json:"proctoring_data"`
	TotalQuestions  int                          `json:"total_questions"`
}
