package generator

import (
	"context"
	"errors"

	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// Sentinel errors callers can branch on when deciding to fall back to the
// prepared question bank.
var (
	ErrQuotaExceeded = errors.New("generation quota exceeded")
	ErrUnavailable   = errors.New("generation provider unavailable")
	ErrBadOutput     = errors.New("generation output malformed")
)

// Request describes one generation call for a single skill at a single
// difficulty band.
type Request struct {
	JobID          int64
	SkillName      string
	Band           model.Band
	Count          int
	JobDescription string
	CustomPrompt   string
	// AvoidQuestions lists recent question texts the model should not repeat.
	AvoidQuestions []string
}

// QuestionGenerator produces fresh multiple-choice questions. Implementations
// must honor ctx cancellation; callers enforce their own deadline and treat a
// late result as lost.
type QuestionGenerator interface {
	Generate(ctx context.Context, req Request) ([]model.MCQ, error)
}
