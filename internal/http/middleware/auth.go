package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/codepath-backend/internal/http/response"
	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
	"github.com/yungbote/codepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/codepath-backend/internal/platform/identity"
	"github.com/yungbote/codepath-backend/internal/platform/logger"
)

type AuthMiddleware struct {
	log      *logger.Logger
	provider identity.Provider
}

func NewAuthMiddleware(log *logger.Logger, provider identity.Provider) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), provider: provider}
}

// RequireAuth rejects requests without a verifiable bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			response.RespondServiceError(c, am.log, fmt.Errorf("missing bearer token: %w", errs.ErrUnauthenticated))
			c.Abort()
			return
		}
		learnerID, err := am.provider.Verify(c.Request.Context(), token)
		if err != nil {
			response.RespondServiceError(c, am.log, err)
			c.Abort()
			return
		}
		am.attach(c, learnerID)
		c.Next()
	}
}

// OptionalAuth attaches the learner when a valid token is present. A missing
// or invalid token leaves the request anonymous.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractBearer(c); token != "" {
			learnerID, err := am.provider.Verify(c.Request.Context(), token)
			if err == nil {
				am.attach(c, learnerID)
			} else {
				am.log.Debug("ignoring invalid token on optional route", "path", c.FullPath(), "error", err)
			}
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context, learnerID string) {
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{LearnerID: learnerID})
	c.Request = c.Request.WithContext(ctx)
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
