package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/luxbiz/biz-optimizer/internal/api/http"
	"github.com/luxbiz/biz-optimizer/internal/auth"
	"github.com/luxbiz/biz-optimizer/internal/reports/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	reports *service.ReportService
}

func New(reports *service.ReportService) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:auditId", h.get)
	rg.GET("/:auditId/export", h.export)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "auditId")
	if !ok {
		return
	}
	r, err := h.reports.Build(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httpapi.RespondError(c, "reports.get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": r})
}

func (h *Handler) export(c *gin.Context) {
	id, ok := httpapi.ParamID(c, "auditId")
	if !ok {
		return
	}
	data, name, err := h.reports.Export(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		httpapi.RespondError(c, "reports.export", err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, xlsxContentType, data)
}
