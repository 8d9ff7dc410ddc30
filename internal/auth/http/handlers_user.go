package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
)

// Me returns the current user's account.
func (h *Handler) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		httpapi.RespondError(c, "auth.me", apperr.ErrUnauthorized)
		return
	}

	fresh, err := h.accounts.GetUser(c.Request.Context(), user.ID)
	if err != nil {
		httpapi.RespondError(c, "auth.me", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": fresh})
}

// Logout is stateless; tokens belong to the identity provider and the client
// discards its own.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
