package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skillprobe/skillprobe-backend/internal/model"
	"github.com/skillprobe/skillprobe-backend/internal/response"
	"github.com/skillprobe/skillprobe-backend/internal/service"
)

// ProctoringHandler exposes snapshot and violation capture endpoints.
type ProctoringHandler struct {
	proctoring     *service.ProctoringService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewProctoringHandler creates a new ProctoringHandler.
func NewProctoringHandler(proctoring *service.ProctoringService, maxUploadBytes int64, log zerolog.Logger) *ProctoringHandler {
	return &ProctoringHandler{
		proctoring:     proctoring,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "proctoring_handler").Logger(),
	}
}

// CaptureSnapshot godoc
// POST /api/v1/assessments/:attempt_id/snapshot
// Multipart upload of one webcam frame under the "snapshot" field.
func (h *ProctoringHandler) CaptureSnapshot(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("snapshot")
	if err != nil || header.Filename == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	path, err := h.proctoring.CaptureSnapshot(c.Request.Context(), attemptID, file)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message":       "Snapshot captured successfully",
		"snapshot_path": path,
	})
}

// StoreViolation godoc
// POST /api/v1/assessments/:attempt_id/violation
// Multipart upload of the evidence frame plus a violation_type form value.
func (h *ProctoringHandler) StoreViolation(c *gin.Context) {
	attemptID, ok := attemptIDParam(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("snapshot")
	if err != nil || header.Filename == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		return
	}

	violationType := model.ViolationType(strings.ToLower(c.PostForm("violation_type")))
	violation, err := h.proctoring.StoreViolation(c.Request.Context(), attemptID, file, violationType)
	if err != nil {
		failServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message":       "Violation stored successfully",
		"violation_id":  violation.ViolationID,
		"snapshot_path": violation.SnapshotPath,
	})
}
