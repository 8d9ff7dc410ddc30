package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/support/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "subject, category and message are required")
		return
	}

	thread, err := h.support.Create(c.Request.Context(), auth.CurrentUser(c), domain.CreateInput{
		Subject:  req.Subject,
		Category: req.Category,
		Message:  req.Message,
	})
	if err != nil {
		httpapi.RespondError(c, "support.create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": thread.Ticket.ID, "ticket": thread.Ticket, "messages": thread.Messages})
}

func (h *Handler) list(c *gin.Context) {
	tickets, err := h.support.List(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		httpapi.RespondError(c, "support.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tickets": tickets})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	thread, err := h.support.Get(c.Request.Context(), auth.CurrentUser(c), id)
	if err != nil {
		httpapi.RespondError(c, "support.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ticket": thread.Ticket, "messages": thread.Messages})
}

func (h *Handler) reply(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	var req replyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "body is required")
		return
	}
	m, err := h.support.Reply(c.Request.Context(), auth.CurrentUser(c), id, domain.ReplyInput{Body: req.Body})
	if err != nil {
		httpapi.RespondError(c, "support.reply", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": m})
}

func (h *Handler) updateStatus(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "status is required")
		return
	}
	t, err := h.support.UpdateStatus(c.Request.Context(), auth.CurrentUser(c), id, domain.StatusInput{Status: req.Status})
	if err != nil {
		httpapi.RespondError(c, "support.update_status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ticket": t})
}
