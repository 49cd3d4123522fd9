package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/model"
	"github.com/skillprobe/skillprobe-backend/internal/response"
	"github.com/skillprobe/skillprobe-backend/internal/service"
	"github.com/skillprobe/skillprobe-backend/internal/validator"
)

// AssessmentHandler exposes the adaptive assessment lifecycle over HTTP.
type AssessmentHandler struct {
	assessments *service.AssessmentService
	log         zerolog.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(assessments *service.AssessmentService, log zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessments: assessments,
		log:         log.With().Str("component", "assessment_handler").Logger(),
	}
}

func attemptIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("attempt_id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// failServiceError translates engine errors into API error responses.
func failServiceError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrCandidateNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrCandidateNotFound)
	case errors.Is(err, service.ErrJobNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrJobNotFound)
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrScheduleNotStarted), errors.Is(err, service.ErrScheduleEnded):
		response.Fail(c, http.StatusForbidden, response.ErrOutsideSchedule)
	case errors.Is(err, service.ErrInvalidExperienceRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidExperienceRange)
	case errors.Is(err, service.ErrNoRequiredSkills):
		response.Fail(c, http.StatusBadRequest, response.ErrNoRequiredSkills)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrInvalidSkill):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidSkill)
	case errors.Is(err, service.ErrInvalidAnswer):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswer)
	case errors.Is(err, service.ErrInvalidMCQ):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidMCQ)
	case errors.Is(err, service.ErrAttemptNotInProgress):
		response.Fail(c, http.StatusBadRequest, response.ErrAttemptNotInProgress)
	case errors.Is(err, service.ErrAttemptNotCompleted):
		response.Fail(c, http.StatusBadRequest, response.ErrAttemptNotCompleted)
	case errors.Is(err, service.ErrInvalidViolationType):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidViolationType)
	default:
		log.Error().Err(err).Msg("unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Start godoc
// POST /api/v1/assessments/:attempt_id/start
func (h *AssessmentHandler) Start(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	result, err := h.assessments.Start(c.Request.Context(), attemptID)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

type proctoringEnvelope struct {
	ProctoringData *model.ProctoringUpdate `json:"proctoring_data"`
}

// NextQuestion godoc
// POST /api/v1/assessments/:attempt_id/next-question
// Returns either the next question, a completion report, or a
// no-more-questions marker.
func (h *AssessmentHandler) NextQuestion(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	// The proctoring payload only matters when this call triggers
	// completion; an absent or empty body is fine.
	var req proctoringEnvelope
	_ = c.ShouldBindJSON(&req)

	result, err := h.assessments.NextQuestion(c.Request.Context(), attemptID, req.ProctoringData)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}

	switch {
	case result.Question != nil:
		q := result.Question
		response.Success(c, http.StatusOK, gin.H{
			"greeting": q.Greeting,
			"question": gin.H{
				"mcq_id":   q.MCQID,
				"question": q.Question,
				"options":  q.Options,
			},
			"skill":           q.Skill,
			"question_number": q.QuestionNumber,
		})
	case result.Completion != nil:
		response.Success(c, http.StatusOK, completionBody(result.Completion))
	default:
		response.Success(c, http.StatusOK, gin.H{"message": "No more questions available"})
	}
}

type submitAnswerRequest struct {
	Skill     string  `json:"skill" binding:"required"`
	Answer    string  `json:"answer" binding:"required"`
	MCQID     string  `json:"mcq_id" binding:"required"`
	TimeTaken float64 `json:"time_taken"`
}

// SubmitAnswer godoc
// POST /api/v1/assessments/:attempt_id/answer
func (h *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	var req submitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	feedback, err := h.assessments.SubmitAnswer(c.Request.Context(), attemptID, service.SubmitAnswerRequest{
		Skill:     req.Skill,
		Answer:    req.Answer,
		MCQID:     req.MCQID,
		TimeTaken: req.TimeTaken,
	})
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"feedback": feedback})
}

// End godoc
// POST /api/v1/assessments/:attempt_id/end
// Explicit termination. Accepts the client's final proctoring payload.
func (h *AssessmentHandler) End(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	var req proctoringEnvelope
	_ = c.ShouldBindJSON(&req)

	report, err := h.assessments.End(c.Request.Context(), attemptID, req.ProctoringData)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, completionBody(report))
}

func completionBody(report *model.CompletionReport) gin.H {
	return gin.H{
		"message":          report.Message,
		"candidate_report": report.CandidateReport,
		"proctoring_data":  report.Proctoring,
		"total_questions":  report.TotalQuestions,
	}
}

// Results godoc
// GET /api/v1/assessments/:attempt_id/results
func (h *AssessmentHandler) Results(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	report, err := h.assessments.Results(c.Request.Context(), attemptID)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// ListByCandidate godoc
// GET /api/v1/candidates/:candidate_id/assessments
func (h *AssessmentHandler) ListByCandidate(c *gin.Context) {
	candidateID, err := strconv.ParseInt(c.Param("candidate_id"), 10, 64)
	if err != nil || candidateID <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempts, err := h.assessments.ListCompleted(c.Request.Context(), candidateID)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempted": attempts})
}
