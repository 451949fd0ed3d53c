package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/codepath-backend/internal/platform/apierr"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError translates a service error through apierr. Server-side
// failures are logged with the original cause before the generic body is sent.
func RespondServiceError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.FromError(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", nil)
	}
	if log != nil && ae.Status >= http.StatusInternalServerError {
		log.Error("request failed",
			"code", ae.Code,
			"path", c.FullPath(),
			"error", err,
		)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
