package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/chat/domain"
)

func (h *Handler) send(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "message is required")
		return
	}

	res, err := h.chat.Send(c.Request.Context(), auth.UserID(c), domain.SendInput{AuditID: req.AuditID, Message: req.Message})
	if err != nil {
		httpapi.RespondError(c, "chat.send", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": res.Message, "reply": res.Reply})
}

func (h *Handler) history(c *gin.Context) {
	auditID, ok := httpapi.QueryID(c, "auditId")
	if !ok {
		return
	}
	var filter *int64
	if auditID > 0 {
		filter = &auditID
	}

	msgs, err := h.chat.History(c.Request.Context(), auth.UserID(c), filter)
	if err != nil {
		httpapi.RespondError(c, "chat.history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": msgs})
}
