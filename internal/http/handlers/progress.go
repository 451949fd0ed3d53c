package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/codepath-backend/internal/http/response"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
	"github.com/yungbote/codepath-backend/internal/services"
)

type ProgressHandler struct {
	log *logger.Logger
	svc services.ProgressService
}

func NewProgressHandler(log *logger.Logger, svc services.ProgressService) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), svc: svc}
}

// status and progressPercentage are required; timeSpent defaults to 0.
type recordProgressRequest struct {
	Status             *string `json:"status"`
	ProgressPercentage *int    `json:"progressPercentage"`
	TimeSpent          *int64  `json:"timeSpent"`
}

// POST /api/progress/lesson/:lessonId
func (h *ProgressHandler) RecordLessonProgress(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lessonId"))
	if err != nil || lessonID == uuid.Nil {
		response.RespondServiceError(c, h.log, errs.Invalid("lessonId", "must be a UUID"))
		return
	}
	var req recordProgressRequest
	if err := decodeStrict(c, &req); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	var absent []string
	if req.Status == nil {
		absent = append(absent, "status")
	}
	if req.ProgressPercentage == nil {
		absent = append(absent, "progressPercentage")
	}
	if err := missing(absent...); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	in := services.ProgressInput{
		Status:             *req.Status,
		ProgressPercentage: *req.ProgressPercentage,
	}
	if req.TimeSpent != nil {
		in.TimeSpentDelta = *req.TimeSpent
	}

	row, err := h.svc.RecordProgress(c.Request.Context(), ctxutil.LearnerID(c.Request.Context()), lessonID, in)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /api/progress/summary
func (h *ProgressHandler) GetSummary(c *gin.Context) {
	sum, err := h.svc.GetProgressSummary(c.Request.Context(), ctxutil.LearnerID(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": sum})
}
