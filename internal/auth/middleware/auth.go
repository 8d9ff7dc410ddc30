package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/auth/domain"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

type UserEnsurer interface {
	EnsureUser(ctx context.Context, id domain.Identity) (*domain.User, error)
}

// RequireUser validates the bearer token and loads the caller's account.
func RequireUser(verifier auth.Verifier, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httpapi.RespondError(c, "auth.verify", domain.ErrMissingToken)
			return
		}

		id, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			httpapi.RespondError(c, "auth.verify", err)
			return
		}

		user, err := users.EnsureUser(c.Request.Context(), *id)
		if err != nil {
			httpapi.RespondError(c, "auth.ensure_user", err)
			return
		}

		c.Set(auth.CtxUser, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.CurrentUser(c).IsAdmin() {
			httpapi.RespondError(c, "auth.require_admin", apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.EqualFold(bearerToken[:7], "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
