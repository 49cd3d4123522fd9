package service

import "errors"

// Terminal errors surfaced to handlers. Anything else coming out of the
// service layer is treated as an internal failure.
var (
	ErrAttemptNotFound        = errors.New("assessment attempt not found")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrJobNotFound            = errors.New("job description not found")
	ErrSessionNotFound        = errors.New("assessment session not found")
	ErrScheduleNotStarted     = errors.New("assessment not yet started")
	ErrScheduleEnded          = errors.New("assessment period has ended")
	ErrInvalidExperienceRange = errors.New("invalid job experience range")
	ErrNoRequiredSkills       = errors.New("no required skills found for this job")
	ErrNoQuestions            = errors.New("no questions available for this job")
	ErrInvalidSkill           = errors.New("invalid skill provided")
	ErrInvalidAnswer          = errors.New("invalid answer provided")
	ErrInvalidMCQ             = errors.New("invalid mcq_id provided")
	ErrAttemptNotInProgress   = errors.New("assessment not in progress")
	ErrAttemptNotCompleted    = errors.New("assessment not completed")
	ErrInvalidViolationType   = errors.New("invalid violation type")
)
