package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/luxbiz/biz-optimizer/internal/auth/domain"
)

const CtxUser = "auth_user"

// CurrentUser returns the user stored by the auth middleware, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// UserID returns the caller's id, 0 when unauthenticated.
func UserID(c *gin.Context) int64 {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
