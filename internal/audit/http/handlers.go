package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "companyProfileId is required")
		return
	}

	res, err := h.orchestrator.Create(c.Request.Context(), auth.UserID(c), req.CompanyProfileID)
	if err != nil {
		httpapi.RespondError(c, "audit.create", err)
		return
	}

	status := http.StatusAccepted
	if res.AlreadyComplete {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"ok":              true,
		"auditId":         res.AuditID,
		"jobId":           res.JobID,
		"alreadyComplete": res.AlreadyComplete,
		"inProgress":      res.InProgress,
	})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	a, err := h.orchestrator.Get(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httpapi.RespondError(c, "audit.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "audit": a})
}

func (h *Handler) list(c *gin.Context) {
	profileID, ok := httpapi.QueryID(c, "companyProfileId")
	if !ok {
		return
	}
	if profileID == 0 {
		httpapi.RespondBadRequest(c, "companyProfileId is required")
		return
	}

	items, err := h.orchestrator.List(c.Request.Context(), auth.UserID(c), profileID)
	if err != nil {
		httpapi.RespondError(c, "audit.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "audits": items})
}

func (h *Handler) latest(c *gin.Context) {
	profileID, ok := httpapi.QueryID(c, "companyProfileId")
	if !ok {
		return
	}
	if profileID == 0 {
		httpapi.RespondBadRequest(c, "companyProfileId is required")
		return
	}

	a, err := h.orchestrator.Latest(c.Request.Context(), auth.UserID(c), profileID)
	if err != nil {
		httpapi.RespondError(c, "audit.latest", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "audit": a})
}
