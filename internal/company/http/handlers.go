package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/company/domain"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "invalid body: businessName, industry and location are required")
		return
	}

	p, err := h.svc.Create(c.Request.Context(), auth.CurrentUser(c), domain.CreateInput{
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		Location:       req.Location,
		Website:        req.Website,
		Phone:          req.Phone,
		Description:    req.Description,
		Services:       req.Services,
		TargetAudience: req.TargetAudience,
	})
	if err != nil {
		httpapi.RespondError(c, "company.create", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": p.ID, "profile": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		httpapi.RespondError(c, "company.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profiles": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httpapi.RespondError(c, "company.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.RespondBadRequest(c, "invalid body")
		return
	}

	p, err := h.svc.Update(c.Request.Context(), auth.UserID(c), id, domain.UpdateInput{
		BusinessName:   req.BusinessName,
		Industry:       req.Industry,
		Location:       req.Location,
		Website:        req.Website,
		Phone:          req.Phone,
		Description:    req.Description,
		Services:       req.Services,
		TargetAudience: req.TargetAudience,
	})
	if err != nil {
		httpapi.RespondError(c, "company.update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		httpapi.RespondError(c, "company.delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
