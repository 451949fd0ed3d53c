package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/codepath-backend/internal/http/response"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
	"github.com/yungbote/codepath-backend/internal/services"
)

type QuizHandler struct {
	log *logger.Logger
	svc services.QuizService
}

func NewQuizHandler(log *logger.Logger, svc services.QuizService) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), svc: svc}
}

type submitAnswerRequest struct {
	QuestionID *string `json:"questionId"`
	UserAnswer *string `json:"userAnswer"`
}

// POST /api/quiz/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	var req submitAnswerRequest
	if err := decodeStrict(c, &req); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	var absent []string
	if req.QuestionID == nil {
		absent = append(absent, "questionId")
	}
	if req.UserAnswer == nil {
		absent = append(absent, "userAnswer")
	}
	if err := missing(absent...); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	questionID, err := uuid.Parse(strings.TrimSpace(*req.QuestionID))
	if err != nil {
		response.RespondServiceError(c, h.log, errs.Invalid("questionId", "must be a UUID"))
		return
	}

	res, err := h.svc.SubmitAnswer(c.Request.Context(), ctxutil.LearnerID(c.Request.Context()), questionID, *req.UserAnswer)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/lesson/:slug/quiz
func (h *QuizHandler) ListLessonQuestions(c *gin.Context) {
	questions, err := h.svc.ListLessonQuestions(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"questions": questions})
}

// GET /api/quiz/score
func (h *QuizHandler) GetScore(c *gin.Context) {
	score, err := h.svc.GetScore(c.Request.Context(), ctxutil.LearnerID(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"score": score})
}

// GET /api/quiz/attempts?limit=
func (h *QuizHandler) ListAttempts(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondServiceError(c, h.log, errs.Invalid("limit", "must be an integer"))
			return
		}
		limit = n
	}
	rows, err := h.svc.ListAttempts(c.Request.Context(), ctxutil.LearnerID(c.Request.Context()), limit)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": rows})
}
