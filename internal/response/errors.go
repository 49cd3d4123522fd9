package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrAttemptNotFound   ErrCode = "ATTEMPT_NOT_FOUND"
	ErrCandidateNotFound ErrCode = "CANDIDATE_NOT_FOUND"
	ErrJobNotFound       ErrCode = "JOB_NOT_FOUND"
	ErrSessionNotFound   ErrCode = "SESSION_NOT_FOUND"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrOutsideSchedule        ErrCode = "OUTSIDE_SCHEDULE_WINDOW"
	ErrInvalidExperienceRange ErrCode = "INVALID_EXPERIENCE_RANGE"
	ErrNoRequiredSkills       ErrCode = "NO_REQUIRED_SKILLS"
	ErrNoQuestions            ErrCode = "NO_QUESTIONS"
	ErrInvalidSkill           ErrCode = "INVALID_SKILL"
	ErrInvalidAnswer          ErrCode = "INVALID_ANSWER"
	ErrInvalidMCQ             ErrCode = "INVALID_MCQ_ID"
	ErrAttemptNotInProgress   ErrCode = "ATTEMPT_NOT_IN_PROGRESS"
	ErrAttemptNotCompleted    ErrCode = "ATTEMPT_NOT_COMPLETED"
	ErrInvalidViolationType   ErrCode = "INVALID_VIOLATION_TYPE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrPersistence ErrCode = "PERSISTENCE_ERROR"
	ErrInternal    ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrAttemptNotFound:
		return "Assessment attempt not found."
	case ErrCandidateNotFound:
		return "Candidate not found."
	case ErrJobNotFound:
		return "Job description not found."
	case ErrSessionNotFound:
		return "Assessment session not found."
	case ErrOutsideSchedule:
		return "The assessment is not open at this time."
	case ErrInvalidExperienceRange:
		return "Invalid job experience range."
	case ErrNoRequiredSkills:
		return "No required skills found for this job."
	case ErrNoQuestions:
		return "No questions available for this job."
	case ErrInvalidSkill:
		return "Invalid skill provided."
	case ErrInvalidAnswer:
		return "Invalid answer provided."
	case ErrInvalidMCQ:
		return "Invalid mcq_id provided."
	case ErrAttemptNotInProgress:
		return "Assessment not in progress."
	case ErrAttemptNotCompleted:
		return "Assessment not completed."
	case ErrInvalidViolationType:
		return "Invalid violation type."
	case ErrFileRequired:
		return "File upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrPersistence:
		return "Failed to persist data. Please retry."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
