package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/codepath-backend/internal/http/response"
	"github.com/yungbote/codepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
	"github.com/yungbote/codepath-backend/internal/services"
)

type LessonHandler struct {
	log *logger.Logger
	svc services.LessonService
}

func NewLessonHandler(log *logger.Logger, svc services.LessonService) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), svc: svc}
}

// GET /api/lesson/:slug
func (h *LessonHandler) GetLesson(c *gin.Context) {
	view, err := h.svc.GetLessonView(c.Request.Context(), c.Param("slug"), ctxutil.LearnerID(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, view)
}
